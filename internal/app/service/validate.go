package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"memeshare/internal/common"
	"memeshare/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

var now = func() time.Time { return time.Now().UTC() }

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Tag.Get("db")
		}
		return name
	})
	return v
}

// validateModel runs the struct tags of a non-nil model. It never touches storage.
func validateModel[T any](m *T, name string) error {
	if m == nil {
		return common.InvalidField(name, "must not be nil")
	}
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return common.InvalidField(verrs[0].Field(), describe(verrs[0].Tag(), verrs[0].Param()))
		}
		return fmt.Errorf("%s: %v: %w", name, err, common.ErrInvalidArgument)
	}
	return nil
}

func validateVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return common.InvalidField(field, describe(verrs[0].Tag(), verrs[0].Param()))
		}
		return fmt.Errorf("%s: %v: %w", field, err, common.ErrInvalidArgument)
	}
	return nil
}

func requireID(field string, id int64) error {
	return validateVar(field, id, "gt=0")
}

func requireText(field, value string) error {
	return validateVar(field, value, "notblank")
}

func describe(tag, param string) string {
	switch tag {
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "notblank":
		return "must not be empty or whitespace"
	}
	return "failed " + tag + " check"
}

// getOne looks up a row by a unique key. No match is NotFound; several is Conflict.
func getOne[T any](ctx context.Context, g repository.Gateway[T], entity string, conds ...repository.Condition) (*T, error) {
	rows, err := g.FindByCondition(ctx, conds...)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%s not found: %w", entity, common.ErrNotFound)
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%d %s rows share one key: %w", len(rows), entity, common.ErrConflict)
	}
}

// mustExist is getOne for rows about to be updated or deleted: anything but
// exactly one match is a Conflict.
func mustExist[T any](ctx context.Context, g repository.Gateway[T], entity string, conds ...repository.Condition) (*T, error) {
	rows, err := g.FindByCondition(ctx, conds...)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%s not found: %w", entity, common.ErrConflict)
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%d %s rows share one key: %w", len(rows), entity, common.ErrConflict)
	}
}

// requireRef fails with Conflict when a referenced entity is missing.
func requireRef[T any](ctx context.Context, g repository.Gateway[T], entity string, id int64) error {
	ok, err := exists(ctx, g, repository.Eq("id", id))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s not found: %w", entity, common.ErrConflict)
	}
	return nil
}

// rejectDuplicate fails with Conflict when any row matches conds.
func rejectDuplicate[T any](ctx context.Context, g repository.Gateway[T], what string, conds ...repository.Condition) error {
	ok, err := exists(ctx, g, conds...)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%s already exists: %w", what, common.ErrConflict)
	}
	return nil
}

func exists[T any](ctx context.Context, g repository.Gateway[T], conds ...repository.Condition) (bool, error) {
	rows, err := g.FindByCondition(ctx, conds...)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
