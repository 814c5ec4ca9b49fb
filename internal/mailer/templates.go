package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Notification kinds.  Handlers stamp these onto queue events; the
// consumer maps them back to a template.
const (
	KindCreated   = "created"
	KindConfirmed = "confirmed"
	KindWaiting   = "waiting"
	KindRefused   = "refused"
	KindCancelled = "cancelled"
	KindReminder  = "reminder"
)

// BookingEmailData carries everything a booking template interpolates.
// All string fields originate from user input or restaurant settings
// and are escaped by html/template at render time.
type BookingEmailData struct {
	RestaurantName string
	Date           string // YYYY-MM-DD, reformatted for display
	Time           string
	Guests         uint32
	Children       uint32
	FirstName      string
	LastName       string
	SpecialRequest string
	Status         string // initial status on creation (pending or waiting)
	ConfirmURL     string
	RefuseURL      string
	WaitURL        string
	CancelURL      string
}

// templateView is BookingEmailData plus the derived display strings.
type templateView struct {
	BookingEmailData
	DisplayDate string
	PartySize   string
	Waitlisted  bool
}

// FormatDate converts an ISO date to the DD.MM.YYYY form used in all
// customer-facing mail.  Unparseable input is returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

// GuestSummary renders a pluralized party description such as
// "4 guests, 2 children" or "1 guest".
func GuestSummary(guests, children uint32) string {
	s := fmt.Sprintf("%d guests", guests)
	if guests == 1 {
		s = "1 guest"
	}
	if children == 1 {
		s += ", 1 child"
	} else if children > 1 {
		s += fmt.Sprintf(", %d children", children)
	}
	return s
}

var clientTemplates = template.Must(template.New("client").Parse(`
{{define "header"}}<p>Dear {{.FirstName}} {{.LastName}},</p>{{end}}
{{define "slot"}}<p><strong>{{.RestaurantName}}</strong><br>{{.DisplayDate}} at {{.Time}}<br>{{.PartySize}}</p>{{end}}
{{define "footer"}}{{if .CancelURL}}<p>If your plans change you can cancel here: <a href="{{.CancelURL}}">cancel my reservation</a></p>{{end}}{{end}}

{{define "created"}}{{template "header" .}}
<p>We received your reservation request.{{if .Waitlisted}} The requested time is currently fully booked, so you have been placed on the waiting list. The restaurant will contact you if a table frees up.{{else}} The restaurant will confirm it shortly.{{end}}</p>
{{template "slot" .}}
{{if .SpecialRequest}}<p>Your note: {{.SpecialRequest}}</p>{{end}}
{{template "footer" .}}{{end}}

{{define "confirmed"}}{{template "header" .}}
<p>Good news: your reservation has been confirmed. We look forward to welcoming you!</p>
{{template "slot" .}}
{{template "footer" .}}{{end}}

{{define "waiting"}}{{template "header" .}}
<p>Your reservation has been moved to the waiting list. The restaurant will contact you if a table frees up.</p>
{{template "slot" .}}
{{template "footer" .}}{{end}}

{{define "cancelled"}}{{template "header" .}}
<p>Unfortunately your reservation could not be kept and has been cancelled. We apologize for the inconvenience.</p>
{{template "slot" .}}{{end}}

{{define "reminder"}}{{template "header" .}}
<p>A friendly reminder of your reservation tomorrow:</p>
{{template "slot" .}}
{{template "footer" .}}{{end}}
`))

var restaurantTemplate = template.Must(template.New("restaurant").Parse(`
<p>A new online reservation request has arrived{{if .Waitlisted}} and was placed on the waiting list{{end}}:</p>
<p><strong>{{.FirstName}} {{.LastName}}</strong><br>{{.DisplayDate}} at {{.Time}}<br>{{.PartySize}}</p>
{{if .SpecialRequest}}<p>Special request: {{.SpecialRequest}}</p>{{end}}
<p>
<a href="{{.ConfirmURL}}">Confirm</a> &nbsp;|&nbsp;
<a href="{{.RefuseURL}}">Refuse</a> &nbsp;|&nbsp;
<a href="{{.WaitURL}}">Move to waiting list</a>
</p>
`))

func view(d BookingEmailData) templateView {
	return templateView{
		BookingEmailData: d,
		DisplayDate:      FormatDate(d.Date),
		PartySize:        GuestSummary(d.Guests, d.Children),
		Waitlisted:       d.Status == "waiting",
	}
}

// ClientMessage renders the client-facing email for a notification
// kind.  refused and cancelled share one template since the client
// reads both as "the reservation is off".
func ClientMessage(kind, to string, d BookingEmailData) (Message, error) {
	tmpl := kind
	subject := ""
	switch kind {
	case KindCreated:
		subject = "Your reservation request at " + d.RestaurantName
	case KindConfirmed:
		subject = "Reservation confirmed at " + d.RestaurantName
	case KindWaiting:
		subject = "You are on the waiting list at " + d.RestaurantName
	case KindRefused, KindCancelled:
		tmpl = "cancelled"
		subject = "Reservation cancelled at " + d.RestaurantName
	case KindReminder:
		subject = "Reminder: your reservation tomorrow at " + d.RestaurantName
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}
	var buf bytes.Buffer
	if err := clientTemplates.ExecuteTemplate(&buf, tmpl, view(d)); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: buf.String()}, nil
}

// RestaurantMessage renders the new-booking notification sent to the
// restaurant, including the three signed action links.
func RestaurantMessage(to string, d BookingEmailData) (Message, error) {
	var buf bytes.Buffer
	if err := restaurantTemplate.Execute(&buf, view(d)); err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "New reservation request " + FormatDate(d.Date) + " " + d.Time,
		HTML:    buf.String(),
	}, nil
}
