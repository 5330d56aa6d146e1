package service

import (
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// passOrWrap returns classified errors unchanged and wraps everything else
// with the failing step, leaving it to surface as an internal error.
func passOrWrap(err error, step string) error {
	var e *model.Error
	if errors.As(err, &e) {
		return err
	}
	return fmt.Errorf("%s: %w", step, err)
}
