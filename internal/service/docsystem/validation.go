package docsystem

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

// validateName trims a user-supplied node name and checks it. A blank name
// is ErrEmptyName; anything else wrong is a ValidationError.
func validateName(field, name string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%s: %w", field, domain.ErrEmptyName)
	}
	err := validation.Validate(trimmed,
		validation.Required,
		validation.RuneLength(1, maxLen),
		validation.By(singleLine),
	)
	if err != nil {
		return "", asValidationError(field, err)
	}
	return trimmed, nil
}

// validatePrefix checks a batch-apply prefix. Empty is allowed; the copies
// then keep their names.
func validatePrefix(prefix string) error {
	err := validation.Validate(prefix,
		validation.RuneLength(0, config.MaxNamePrefixLength),
		validation.By(singleLine),
	)
	if err != nil {
		return asValidationError("name prefix", err)
	}
	return nil
}

// validateSaveReport checks a report before it is stored
func validateSaveReport(req *docsysSvc.SaveReportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("report name: %w", domain.ErrEmptyName)
	}
	if len(req.Structure) == 0 {
		return fmt.Errorf("report %q: %w", req.Name, domain.ErrEmptyStructure)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxReportNameLength),
			validation.By(singleLine),
		),
	)
	if err != nil {
		return asValidationError("report", err)
	}
	return nil
}

// singleLine rejects names with line breaks; names become heading lines on
// export
func singleLine(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\r\n") {
		return errors.New("must not contain line breaks")
	}
	return nil
}

func asValidationError(field string, err error) error {
	return &domain.ValidationError{Message: fmt.Sprintf("%s: %v", field, err)}
}
