package healthcare

import "errors"

var (
	ErrMemberNotFound      = errors.New("family member not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrProcedureNotFound   = errors.New("procedure not found")
	ErrMedicationNotFound  = errors.New("medication not found")
)
