package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var leadConfirmationTmpl = template.Must(template.New("lead_confirmation").Parse(`
<p>Olá {{.Name}},</p>
<p>Recebemos sua solicitação de consulta na <strong>{{.ClinicName}}</strong>.</p>
<p>Nossa equipe vai entrar em contato em breve para confirmar o melhor horário.</p>
<p>{{.ClinicName}}</p>
`))

var reminderTmpl = template.Must(template.New("appointment_reminder").Parse(`
<p>Olá {{.Name}},</p>
<p>Lembrete: você tem uma consulta na <strong>{{.ClinicName}}</strong> em {{.When}}.</p>
<p>Se precisar remarcar, entre em contato com a clínica.</p>
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendLeadConfirmation(to, name, clinicName string) error {
	var body bytes.Buffer
	if err := leadConfirmationTmpl.Execute(&body, LeadConfirmationData{Name: name, ClinicName: clinicName}); err != nil {
		return fmt.Errorf("render confirmation template: %w", err)
	}
	subject := fmt.Sprintf("Recebemos sua solicitação, %s!", name)
	return s.send(to, subject, body.String())
}

func (s *EmailSender) SendAppointmentReminder(to, name, clinicName, when string) error {
	var body bytes.Buffer
	if err := reminderTmpl.Execute(&body, ReminderData{Name: name, ClinicName: clinicName, When: when}); err != nil {
		return fmt.Errorf("render reminder template: %w", err)
	}
	subject := fmt.Sprintf("Lembrete de consulta - %s", clinicName)
	return s.send(to, subject, body.String())
}

func (s *EmailSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send SMTP email: %w", err)
	}
	return nil
}
