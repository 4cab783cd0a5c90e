package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrFamilyAccessDenied   = errors.New("family access denied")
	ErrFamilyCodeNotFound   = errors.New("family code not found")
	ErrNoFamily             = errors.New("user has no family")
	ErrFamilyHasUsers       = errors.New("family has users attached")
	ErrCodeGenerationFailed = errors.New("family code generation failed")
)
