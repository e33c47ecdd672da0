package notifications

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// ReminderSubject is the subject line of expiration reminders.
const ReminderSubject = "🔔 Przypomnienie: Produkty w FoodTrackerze czekają!"

//go:embed templates/*
var templateFS embed.FS

var (
	htmlReminder = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/reminder.html"))
	textReminder = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/reminder.txt"))
)

// ReminderItem is one product listed in a reminder.
type ReminderItem struct {
	Name           string
	PantryName     string
	ExpirationDate string
	IsExpired      bool
	Quantity       string
	Unit           string
}

type reminderData struct {
	Subject     string
	Name        string
	Items       []ReminderItem
	GeneratedAt string
}

// RenderReminder builds the reminder e-mail for one recipient.
func RenderReminder(to, name string, items []ReminderItem, generatedAt string) (Message, error) {
	data := reminderData{Subject: ReminderSubject, Name: name, Items: items, GeneratedAt: generatedAt}

	var html, text bytes.Buffer
	if err := htmlReminder.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html reminder: %w", err)
	}
	if err := textReminder.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text reminder: %w", err)
	}

	return Message{To: to, Subject: ReminderSubject, Text: text.String(), HTML: html.String()}, nil
}
