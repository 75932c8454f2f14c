package notify

import (
	"fmt"

	"clinic-booking-server/internal/models"
)

func appointmentConfirmedForPatient(appt *models.Appointment, patient, doctor *models.User) EmailMessage {
	return EmailMessage{
		To:      patient.Email,
		ToName:  patient.FullName(),
		Subject: "Your appointment has been confirmed",
		Body: fmt.Sprintf(
			"Hello %s,\n\n"+
				"Your appointment with Dr. %s has been confirmed.\n\n"+
				"Date: %s\nTime: %s\nType: %s\nMode: %s\n\n"+
				"If you need to cancel, please do so at least 24 hours in advance.",
			patient.FullName(), doctor.FullName(),
			appt.Date, appt.Time, appt.ConsultationType, consultationModeLabel(appt.ConsultationMode),
		),
	}
}

func appointmentConfirmedForDoctor(appt *models.Appointment, patient, doctor *models.User) EmailMessage {
	return EmailMessage{
		To:      doctor.Email,
		ToName:  doctor.FullName(),
		Subject: "New confirmed appointment",
		Body: fmt.Sprintf(
			"Hello Dr. %s,\n\n"+
				"A new appointment with %s has been confirmed.\n\n"+
				"Date: %s\nTime: %s\nType: %s\nMode: %s",
			doctor.FullName(), patient.FullName(),
			appt.Date, appt.Time, appt.ConsultationType, consultationModeLabel(appt.ConsultationMode),
		),
	}
}

func consultationModeLabel(mode models.ConsultationMode) string {
	if mode == models.ModeTelemedicine {
		return "remote video consultation"
	}
	return "in person"
}
