package models

import (
	"math"
	"regexp"
	"strings"
)

const (
	// MaxTitleLength bounds the task title after trimming.
	MaxTitleLength = 255
	// MaxDescriptionLength bounds the task description.
	MaxDescriptionLength = 1000
)

// Only the date prefix is required; a trailing time component is tolerated
// and ignored.
var dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ValidateCreate checks a create payload against the task field rules.
// Parent existence is the repository's job; everything else is decided here.
func ValidateCreate(in CreateTaskInput) *Error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return err
		}
	}
	if in.Category != nil {
		if err := validateCategory(*in.Category); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return err
		}
	}
	if in.DueDate != nil {
		if err := validateDueDate(*in.DueDate); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdate checks only the fields present in a partial update, using
// the same rules as ValidateCreate.
func ValidateUpdate(in UpdateTaskInput) *Error {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return err
		}
	}
	if in.Category != nil {
		if err := validateCategory(*in.Category); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return err
		}
	}
	if in.DueDate != nil {
		if err := validateDueDate(*in.DueDate); err != nil {
			return err
		}
	}
	return nil
}

func validateTitle(title string) *Error {
	if strings.TrimSpace(title) == "" {
		return NewValidation(CodeInvalidTitle, "Task title is required and must be a non-empty string")
	}
	if len(strings.TrimSpace(title)) > MaxTitleLength {
		return NewValidation(CodeTitleTooLong, "Task title must be 255 characters or less")
	}
	return nil
}

func validateDescription(description string) *Error {
	if len(description) > MaxDescriptionLength {
		return NewValidation(CodeDescriptionTooLong, "Task description must be 1000 characters or less")
	}
	return nil
}

func validateCategory(category string) *Error {
	if _, ok := ValidCategories[category]; !ok {
		return NewValidationf(CodeInvalidCategory, "Category must be one of: %s", strings.Join(Categories, ", "))
	}
	return nil
}

func validateStatus(status float64) *Error {
	if status != math.Trunc(status) || status < 0 || status > 100 {
		return NewValidation(CodeInvalidStatus, "Status must be an integer between 0 and 100")
	}
	return nil
}

func validateDueDate(dueDate string) *Error {
	if !dueDatePattern.MatchString(dueDate) {
		return NewValidation(CodeInvalidDueDateFormat, "Due date must be in ISO 8601 format (YYYY-MM-DD)")
	}
	return nil
}
