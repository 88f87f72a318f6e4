package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	resourceIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
			return resourceIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance for use outside
// the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateManifest performs schema and cross-field validation on the manifest.
func ValidateManifest(manifest *Manifest) error {
	if manifest == nil {
		return netsyncerrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(manifest); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(manifest.Resources))
	for i, resource := range manifest.Resources {
		if _, exists := seen[resource.ID]; exists {
			return netsyncerrors.NewValidationError(fieldForResource(i, "id"), fmt.Sprintf("duplicate resource id %q", resource.ID), nil)
		}
		seen[resource.ID] = struct{}{}

		if err := ValidateResource(resource); err != nil {
			return err
		}
	}

	return nil
}

// ValidateResource validates a single resource independent of the rest of
// the manifest.
func ValidateResource(resource Resource) error {
	v := validatorInstance()
	if err := v.Struct(resource); err != nil {
		return convertValidationError(err)
	}

	switch resource.Kind {
	case KindACL:
		if resource.ACL == nil {
			return netsyncerrors.NewValidationError(resource.ID, "acl configuration is required", nil)
		}
		if err := v.Struct(resource.ACL); err != nil {
			return convertValidationError(err)
		}
	case KindZone:
		if resource.Zone == nil {
			return netsyncerrors.NewValidationError(resource.ID, "zone configuration is required", nil)
		}
		if err := v.Struct(resource.Zone); err != nil {
			return convertValidationError(err)
		}
	case KindPeer:
		if resource.Peer == nil {
			return netsyncerrors.NewValidationError(resource.ID, "peer configuration is required", nil)
		}
		if err := v.Struct(resource.Peer); err != nil {
			return convertValidationError(err)
		}
	case KindForward:
		if resource.Forward == nil {
			return netsyncerrors.NewValidationError(resource.ID, "forward configuration is required", nil)
		}
		if err := v.Struct(resource.Forward); err != nil {
			return convertValidationError(err)
		}
	case KindLoadBalancer:
		if resource.LoadBalancer == nil {
			return netsyncerrors.NewValidationError(resource.ID, "load_balancer configuration is required", nil)
		}
		if err := v.Struct(resource.LoadBalancer); err != nil {
			return convertValidationError(err)
		}
	}

	return nil
}

// convertValidationError normalizes validator errors into netsync
// validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return netsyncerrors.NewValidationError(field, msg, err)
	}

	return netsyncerrors.NewValidationError("manifest", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForResource(index int, field string) string {
	return fmt.Sprintf("resources[%d].%s", index, field)
}
