package domain

import "errors"

var (
	ErrSettingsNotFound       = errors.New("settings not found")
	ErrInvalidThreshold       = errors.New("threshold must not be negative")
	ErrUnsupportedSettingsVer = errors.New("unsupported settings version")
)
