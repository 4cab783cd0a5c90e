package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"family-hub-go/internal/domain/healthcare"
)

// ===== members =====

type memberResponse struct {
	ID                string  `json:"id"`
	FamilyID          string  `json:"family_id"`
	Name              string  `json:"name"`
	Photo             *string `json:"photo"`
	BirthDate         string  `json:"birth_date"`
	Gender            *string `json:"gender"`
	Relationship      *string `json:"relationship"`
	BloodType         string  `json:"blood_type"`
	Allergies         string  `json:"allergies"`
	ChronicConditions string  `json:"chronic_conditions"`
	EmergencyContact  *string `json:"emergency_contact"`
	EmergencyPhone    *string `json:"emergency_phone"`
	Notes             string  `json:"notes"`
	DisplayOrder      int     `json:"order"`
}

func toMemberResponse(m *healthcare.FamilyMember) memberResponse {
	return memberResponse{
		ID:                m.ID,
		FamilyID:          m.FamilyID,
		Name:              m.Name,
		Photo:             m.Photo,
		BirthDate:         m.BirthDate.Format(dateLayout),
		Gender:            m.Gender,
		Relationship:      m.Relationship,
		BloodType:         m.BloodType,
		Allergies:         m.Allergies,
		ChronicConditions: m.ChronicConditions,
		EmergencyContact:  m.EmergencyContact,
		EmergencyPhone:    m.EmergencyPhone,
		Notes:             m.Notes,
		DisplayOrder:      m.DisplayOrder,
	}
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.healthcare.ListMembers(r.Context(), scopeFrom(r))
	if err != nil {
		h.respondError(w, err, "list members failed")
		return
	}
	responses := make([]memberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toMemberResponse(&members[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.healthcare.GetMember(r.Context(), scopeFrom(r), chi.URLParam(r, "member_id"))
	if err != nil {
		h.respondError(w, err, "get member failed")
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

type memberRequest struct {
	Name              string  `json:"name"`
	Photo             *string `json:"photo"`
	BirthDate         string  `json:"birth_date"`
	Gender            *string `json:"gender"`
	Relationship      *string `json:"relationship"`
	BloodType         string  `json:"blood_type"`
	Allergies         string  `json:"allergies"`
	ChronicConditions string  `json:"chronic_conditions"`
	EmergencyContact  *string `json:"emergency_contact"`
	EmergencyPhone    *string `json:"emergency_phone"`
	Notes             string  `json:"notes"`
	DisplayOrder      int     `json:"order"`
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	birthDate, err := parseDateRequired(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid birth_date")
		return
	}

	member, err := h.healthcare.CreateMember(r.Context(), familyID, healthcare.MemberInput{
		Name:              req.Name,
		Photo:             req.Photo,
		BirthDate:         birthDate,
		Gender:            req.Gender,
		Relationship:      req.Relationship,
		BloodType:         req.BloodType,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		EmergencyContact:  req.EmergencyContact,
		EmergencyPhone:    req.EmergencyPhone,
		Notes:             req.Notes,
		DisplayOrder:      req.DisplayOrder,
	})
	if err != nil {
		h.respondError(w, err, "create member failed")
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

type memberUpdateRequest struct {
	Name              *string `json:"name"`
	Photo             *string `json:"photo"`
	BirthDate         *string `json:"birth_date"`
	Gender            *string `json:"gender"`
	Relationship      *string `json:"relationship"`
	BloodType         *string `json:"blood_type"`
	Allergies         *string `json:"allergies"`
	ChronicConditions *string `json:"chronic_conditions"`
	EmergencyContact  *string `json:"emergency_contact"`
	EmergencyPhone    *string `json:"emergency_phone"`
	Notes             *string `json:"notes"`
	DisplayOrder      *int    `json:"order"`
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req memberUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	birthDate, err := parseDateParam(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid birth_date")
		return
	}

	member, err := h.healthcare.UpdateMember(r.Context(), scopeFrom(r), chi.URLParam(r, "member_id"), healthcare.MemberUpdate{
		Name:              req.Name,
		Photo:             req.Photo,
		BirthDate:         birthDate,
		Gender:            req.Gender,
		Relationship:      req.Relationship,
		BloodType:         req.BloodType,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		EmergencyContact:  req.EmergencyContact,
		EmergencyPhone:    req.EmergencyPhone,
		Notes:             req.Notes,
		DisplayOrder:      req.DisplayOrder,
	})
	if err != nil {
		h.respondError(w, err, "update member failed")
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.healthcare.DeleteMember(r.Context(), scopeFrom(r), chi.URLParam(r, "member_id")); err != nil {
		h.respondError(w, err, "delete member failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Members []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"members"`
}

func (h *Handlers) ReorderMembers(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	items := make([]healthcare.MemberOrderItem, 0, len(req.Members))
	for _, m := range req.Members {
		items = append(items, healthcare.MemberOrderItem{ID: m.ID, Order: m.Order})
	}
	if err := h.healthcare.ReorderMembers(r.Context(), scopeFrom(r), items); err != nil {
		h.respondError(w, err, "reorder members failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== appointments =====

type appointmentResponse struct {
	ID              string     `json:"id"`
	FamilyMemberID  string     `json:"family_member_id"`
	DoctorName      string     `json:"doctor_name"`
	Specialty       string     `json:"specialty"`
	AppointmentDate time.Time  `json:"appointment_date"`
	Location        string     `json:"location"`
	Reason          string     `json:"reason"`
	Diagnosis       string     `json:"diagnosis"`
	Prescription    string     `json:"prescription"`
	NextAppointment *time.Time `json:"next_appointment"`
	Notes           string     `json:"notes"`
	Documents       *string    `json:"documents"`
}

func toAppointmentResponse(a *healthcare.MedicalAppointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		FamilyMemberID:  a.FamilyMemberID,
		DoctorName:      a.DoctorName,
		Specialty:       a.Specialty,
		AppointmentDate: a.AppointmentDate,
		Location:        a.Location,
		Reason:          a.Reason,
		Diagnosis:       a.Diagnosis,
		Prescription:    a.Prescription,
		NextAppointment: a.NextAppointment,
		Notes:           a.Notes,
		Documents:       a.Documents,
	}
}

func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.healthcare.ListAppointments(r.Context(), scopeFrom(r), r.URL.Query().Get("member_id"))
	if err != nil {
		h.respondError(w, err, "list appointments failed")
		return
	}
	responses := make([]appointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, toAppointmentResponse(&appointments[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

type appointmentRequest struct {
	FamilyMemberID  string  `json:"family_member_id"`
	DoctorName      string  `json:"doctor_name"`
	Specialty       string  `json:"specialty"`
	AppointmentDate string  `json:"appointment_date"`
	Location        string  `json:"location"`
	Reason          string  `json:"reason"`
	Diagnosis       string  `json:"diagnosis"`
	Prescription    string  `json:"prescription"`
	NextAppointment *string `json:"next_appointment"`
	Notes           string  `json:"notes"`
	Documents       *string `json:"documents"`
}

func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	appointmentDate, err := parseDateTimeRequired(req.AppointmentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid appointment_date")
		return
	}
	nextAppointment, err := parseDateTimeParam(req.NextAppointment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid next_appointment")
		return
	}

	appointment, err := h.healthcare.CreateAppointment(r.Context(), scopeFrom(r), healthcare.AppointmentInput{
		FamilyMemberID:  req.FamilyMemberID,
		DoctorName:      req.DoctorName,
		Specialty:       req.Specialty,
		AppointmentDate: appointmentDate,
		Location:        req.Location,
		Reason:          req.Reason,
		Diagnosis:       req.Diagnosis,
		Prescription:    req.Prescription,
		NextAppointment: nextAppointment,
		Notes:           req.Notes,
		Documents:       req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "create appointment failed")
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appointment))
}

type appointmentUpdateRequest struct {
	DoctorName      *string `json:"doctor_name"`
	Specialty       *string `json:"specialty"`
	AppointmentDate *string `json:"appointment_date"`
	Location        *string `json:"location"`
	Reason          *string `json:"reason"`
	Diagnosis       *string `json:"diagnosis"`
	Prescription    *string `json:"prescription"`
	NextAppointment *string `json:"next_appointment"`
	Notes           *string `json:"notes"`
	Documents       *string `json:"documents"`
}

func (h *Handlers) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	appointmentDate, err := parseDateTimeParam(req.AppointmentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid appointment_date")
		return
	}
	nextAppointment, err := parseDateTimeParam(req.NextAppointment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid next_appointment")
		return
	}

	appointment, err := h.healthcare.UpdateAppointment(r.Context(), scopeFrom(r), chi.URLParam(r, "appointment_id"), healthcare.AppointmentUpdate{
		DoctorName:      req.DoctorName,
		Specialty:       req.Specialty,
		AppointmentDate: appointmentDate,
		Location:        req.Location,
		Reason:          req.Reason,
		Diagnosis:       req.Diagnosis,
		Prescription:    req.Prescription,
		NextAppointment: nextAppointment,
		Notes:           req.Notes,
		Documents:       req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "update appointment failed")
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appointment))
}

func (h *Handlers) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.healthcare.DeleteAppointment(r.Context(), scopeFrom(r), chi.URLParam(r, "appointment_id")); err != nil {
		h.respondError(w, err, "delete appointment failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== procedures =====

type procedureResponse struct {
	ID                string     `json:"id"`
	FamilyMemberID    string     `json:"family_member_id"`
	ProcedureName     string     `json:"procedure_name"`
	ProcedureDate     time.Time  `json:"procedure_date"`
	DoctorName        string     `json:"doctor_name"`
	Location          string     `json:"location"`
	Description       string     `json:"description"`
	Results           string     `json:"results"`
	FollowUpNotes     string     `json:"follow_up_notes"`
	NextProcedureDate *time.Time `json:"next_procedure_date"`
	Documents         *string    `json:"documents"`
}

func toProcedureResponse(p *healthcare.MedicalProcedure) procedureResponse {
	return procedureResponse{
		ID:                p.ID,
		FamilyMemberID:    p.FamilyMemberID,
		ProcedureName:     p.ProcedureName,
		ProcedureDate:     p.ProcedureDate,
		DoctorName:        p.DoctorName,
		Location:          p.Location,
		Description:       p.Description,
		Results:           p.Results,
		FollowUpNotes:     p.FollowUpNotes,
		NextProcedureDate: p.NextProcedureDate,
		Documents:         p.Documents,
	}
}

func (h *Handlers) ListProcedures(w http.ResponseWriter, r *http.Request) {
	procedures, err := h.healthcare.ListProcedures(r.Context(), scopeFrom(r), r.URL.Query().Get("member_id"))
	if err != nil {
		h.respondError(w, err, "list procedures failed")
		return
	}
	responses := make([]procedureResponse, 0, len(procedures))
	for i := range procedures {
		responses = append(responses, toProcedureResponse(&procedures[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

type procedureRequest struct {
	FamilyMemberID    string  `json:"family_member_id"`
	ProcedureName     string  `json:"procedure_name"`
	ProcedureDate     string  `json:"procedure_date"`
	DoctorName        string  `json:"doctor_name"`
	Location          string  `json:"location"`
	Description       string  `json:"description"`
	Results           string  `json:"results"`
	FollowUpNotes     string  `json:"follow_up_notes"`
	NextProcedureDate *string `json:"next_procedure_date"`
	Documents         *string `json:"documents"`
}

func (h *Handlers) CreateProcedure(w http.ResponseWriter, r *http.Request) {
	var req procedureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	procedureDate, err := parseDateTimeRequired(req.ProcedureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid procedure_date")
		return
	}
	nextProcedureDate, err := parseDateTimeParam(req.NextProcedureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid next_procedure_date")
		return
	}

	procedure, err := h.healthcare.CreateProcedure(r.Context(), scopeFrom(r), healthcare.ProcedureInput{
		FamilyMemberID:    req.FamilyMemberID,
		ProcedureName:     req.ProcedureName,
		ProcedureDate:     procedureDate,
		DoctorName:        req.DoctorName,
		Location:          req.Location,
		Description:       req.Description,
		Results:           req.Results,
		FollowUpNotes:     req.FollowUpNotes,
		NextProcedureDate: nextProcedureDate,
		Documents:         req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "create procedure failed")
		return
	}
	writeJSON(w, http.StatusCreated, toProcedureResponse(procedure))
}

type procedureUpdateRequest struct {
	ProcedureName     *string `json:"procedure_name"`
	ProcedureDate     *string `json:"procedure_date"`
	DoctorName        *string `json:"doctor_name"`
	Location          *string `json:"location"`
	Description       *string `json:"description"`
	Results           *string `json:"results"`
	FollowUpNotes     *string `json:"follow_up_notes"`
	NextProcedureDate *string `json:"next_procedure_date"`
	Documents         *string `json:"documents"`
}

func (h *Handlers) UpdateProcedure(w http.ResponseWriter, r *http.Request) {
	var req procedureUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	procedureDate, err := parseDateTimeParam(req.ProcedureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid procedure_date")
		return
	}
	nextProcedureDate, err := parseDateTimeParam(req.NextProcedureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid next_procedure_date")
		return
	}

	procedure, err := h.healthcare.UpdateProcedure(r.Context(), scopeFrom(r), chi.URLParam(r, "procedure_id"), healthcare.ProcedureUpdate{
		ProcedureName:     req.ProcedureName,
		ProcedureDate:     procedureDate,
		DoctorName:        req.DoctorName,
		Location:          req.Location,
		Description:       req.Description,
		Results:           req.Results,
		FollowUpNotes:     req.FollowUpNotes,
		NextProcedureDate: nextProcedureDate,
		Documents:         req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "update procedure failed")
		return
	}
	writeJSON(w, http.StatusOK, toProcedureResponse(procedure))
}

func (h *Handlers) DeleteProcedure(w http.ResponseWriter, r *http.Request) {
	if err := h.healthcare.DeleteProcedure(r.Context(), scopeFrom(r), chi.URLParam(r, "procedure_id")); err != nil {
		h.respondError(w, err, "delete procedure failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== medications =====

type medicationResponse struct {
	ID                 string  `json:"id"`
	FamilyMemberID     string  `json:"family_member_id"`
	Name               string  `json:"name"`
	Dosage             string  `json:"dosage"`
	Frequency          string  `json:"frequency"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date"`
	PrescribedBy       string  `json:"prescribed_by"`
	PrescriptionNumber string  `json:"prescription_number"`
	Instructions       string  `json:"instructions"`
	SideEffects        string  `json:"side_effects"`
	Notes              string  `json:"notes"`
	Documents          *string `json:"documents"`
}

func toMedicationResponse(m *healthcare.Medication) medicationResponse {
	var endDate *string
	if m.EndDate != nil {
		formatted := m.EndDate.Format(dateLayout)
		endDate = &formatted
	}
	return medicationResponse{
		ID:                 m.ID,
		FamilyMemberID:     m.FamilyMemberID,
		Name:               m.Name,
		Dosage:             m.Dosage,
		Frequency:          m.Frequency,
		StartDate:          m.StartDate.Format(dateLayout),
		EndDate:            endDate,
		PrescribedBy:       m.PrescribedBy,
		PrescriptionNumber: m.PrescriptionNumber,
		Instructions:       m.Instructions,
		SideEffects:        m.SideEffects,
		Notes:              m.Notes,
		Documents:          m.Documents,
	}
}

func (h *Handlers) ListMedications(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	medications, err := h.healthcare.ListMedications(r.Context(), scopeFrom(r), r.URL.Query().Get("member_id"), activeOnly)
	if err != nil {
		h.respondError(w, err, "list medications failed")
		return
	}
	responses := make([]medicationResponse, 0, len(medications))
	for i := range medications {
		responses = append(responses, toMedicationResponse(&medications[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

type medicationRequest struct {
	FamilyMemberID     string  `json:"family_member_id"`
	Name               string  `json:"name"`
	Dosage             string  `json:"dosage"`
	Frequency          string  `json:"frequency"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date"`
	PrescribedBy       string  `json:"prescribed_by"`
	PrescriptionNumber string  `json:"prescription_number"`
	Instructions       string  `json:"instructions"`
	SideEffects        string  `json:"side_effects"`
	Notes              string  `json:"notes"`
	Documents          *string `json:"documents"`
}

func (h *Handlers) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	startDate, err := parseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid start_date")
		return
	}
	endDate, err := parseDateParam(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid end_date")
		return
	}

	medication, err := h.healthcare.CreateMedication(r.Context(), scopeFrom(r), healthcare.MedicationInput{
		FamilyMemberID:     req.FamilyMemberID,
		Name:               req.Name,
		Dosage:             req.Dosage,
		Frequency:          req.Frequency,
		StartDate:          startDate,
		EndDate:            endDate,
		PrescribedBy:       req.PrescribedBy,
		PrescriptionNumber: req.PrescriptionNumber,
		Instructions:       req.Instructions,
		SideEffects:        req.SideEffects,
		Notes:              req.Notes,
		Documents:          req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "create medication failed")
		return
	}
	writeJSON(w, http.StatusCreated, toMedicationResponse(medication))
}

type medicationUpdateRequest struct {
	Name               *string `json:"name"`
	Dosage             *string `json:"dosage"`
	Frequency          *string `json:"frequency"`
	StartDate          *string `json:"start_date"`
	EndDate            *string `json:"end_date"`
	PrescribedBy       *string `json:"prescribed_by"`
	PrescriptionNumber *string `json:"prescription_number"`
	Instructions       *string `json:"instructions"`
	SideEffects        *string `json:"side_effects"`
	Notes              *string `json:"notes"`
	Documents          *string `json:"documents"`
}

func (h *Handlers) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	startDate, err := parseDateParam(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid start_date")
		return
	}
	endDate, err := parseDateParam(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid end_date")
		return
	}

	medication, err := h.healthcare.UpdateMedication(r.Context(), scopeFrom(r), chi.URLParam(r, "medication_id"), healthcare.MedicationUpdate{
		Name:               req.Name,
		Dosage:             req.Dosage,
		Frequency:          req.Frequency,
		StartDate:          startDate,
		EndDate:            endDate,
		PrescribedBy:       req.PrescribedBy,
		PrescriptionNumber: req.PrescriptionNumber,
		Instructions:       req.Instructions,
		SideEffects:        req.SideEffects,
		Notes:              req.Notes,
		Documents:          req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "update medication failed")
		return
	}
	writeJSON(w, http.StatusOK, toMedicationResponse(medication))
}

func (h *Handlers) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	if err := h.healthcare.DeleteMedication(r.Context(), scopeFrom(r), chi.URLParam(r, "medication_id")); err != nil {
		h.respondError(w, err, "delete medication failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
