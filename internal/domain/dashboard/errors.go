package dashboard

import "errors"

var ErrPreferenceNotFound = errors.New("dashboard preference not found")
