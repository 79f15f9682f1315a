package model

import (
	"fmt"
	"regexp"
	"strings"

	pkgmodel "github.com/goliatone/go-formdialog/pkg/model"
)

func configError(path, reason string, err error) error {
	return &pkgmodel.ConfigError{Path: path, Reason: reason, Err: err}
}

func validateDialog(def pkgmodel.Dialog) error {
	if len(def.Steps) > 0 && len(def.Fields) > 0 {
		return configError("fields", "fields and steps are mutually exclusive", nil)
	}

	ids := make(map[string]string)
	if len(def.Steps) > 0 {
		stepIDs := make(map[string]struct{}, len(def.Steps))
		for i, step := range def.Steps {
			path := fmt.Sprintf("steps[%d]", i)
			if step.ID != "" {
				if _, exists := stepIDs[step.ID]; exists {
					return configError(path, fmt.Sprintf("duplicate step id %q", step.ID), nil)
				}
				stepIDs[step.ID] = struct{}{}
			}
			if err := validateFields(step.Fields, path+".fields", ids); err != nil {
				return err
			}
		}
	} else if err := validateFields(def.Fields, "fields", ids); err != nil {
		return err
	}

	if err := validateConditions(def, ids); err != nil {
		return err
	}
	return validateButtons(def.Buttons)
}

func validateFields(fields []pkgmodel.Field, prefix string, ids map[string]string) error {
	for i, field := range fields {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		id := strings.TrimSpace(field.ID)
		if id == "" {
			return configError(path, "field id is required", nil)
		}
		if previous, exists := ids[id]; exists {
			return configError(path, fmt.Sprintf("duplicate field id %q (first declared at %s)", id, previous), nil)
		}
		ids[id] = path

		class, err := field.Kind.OrDefault().Class()
		if err != nil {
			return configError(path, "", err)
		}
		if class == pkgmodel.ClassLeaf && len(field.Children) > 0 {
			return configError(path, fmt.Sprintf("%s field %q cannot declare children", field.Kind.OrDefault(), id), nil)
		}
		if pattern := field.Constraints.Pattern; pattern != "" {
			if _, err := regexp.Compile(pattern); err != nil {
				return configError(path, "invalid pattern", err)
			}
		}
		if class == pkgmodel.ClassContainer {
			if err := validateFields(field.Children, path+".children", ids); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateConditions(def pkgmodel.Dialog, ids map[string]string) error {
	var check func(fields []pkgmodel.Field) error
	check = func(fields []pkgmodel.Field) error {
		for _, field := range fields {
			conditions := []struct {
				name string
				cond *pkgmodel.Condition
			}{
				{"visibleWhen", field.VisibleWhen},
				{"requiredWhen", field.RequiredWhen},
			}
			for _, c := range conditions {
				if c.cond == nil {
					continue
				}
				if _, ok := ids[c.cond.Field]; !ok {
					return configError(ids[field.ID], fmt.Sprintf("%s references unknown field %q", c.name, c.cond.Field), nil)
				}
			}
			if err := check(field.Children); err != nil {
				return err
			}
		}
		return nil
	}

	if err := check(def.Fields); err != nil {
		return err
	}
	for _, step := range def.Steps {
		if err := check(step.Fields); err != nil {
			return err
		}
	}
	return nil
}

func validateButtons(buttons []pkgmodel.Button) error {
	keys := make(map[string]struct{}, len(buttons))
	for i, button := range buttons {
		path := fmt.Sprintf("buttons[%d]", i)
		if strings.TrimSpace(button.Label) == "" {
			return configError(path, "button label is required", nil)
		}
		if button.Callback == nil {
			return configError(path, fmt.Sprintf("button %q has no callback", button.Label), nil)
		}
		key := button.Key()
		if _, exists := keys[key]; exists {
			return configError(path, fmt.Sprintf("duplicate button %q", key), nil)
		}
		keys[key] = struct{}{}
	}
	return nil
}
