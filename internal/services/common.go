package services

import (
	"strings"
	"time"

	"swiftlink/internal/domain"
	"swiftlink/internal/utils"
)

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return utils.NowUTC()
	}
	return c().UTC().Truncate(time.Second)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
