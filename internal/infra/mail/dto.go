package mail

type LeadConfirmationData struct {
	Name       string
	ClinicName string
}

type ReminderData struct {
	Name       string
	ClinicName string
	When       string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
