package email

import (
	"fmt"
	"strings"
	"time"
)

// BookingNotice carries the fields of one booking request.
type BookingNotice struct {
	RequestID       string
	CustomerName    string
	CustomerContact string
	Court           string
	Date            string
	Times           []string
	TotalPrice      int64
	Coach           bool
}

type DigestItem struct {
	ID              int
	Court           string
	Date            string
	TimeSlot        string
	CustomerName    string
	CustomerContact string
	TotalPrice      int64
	CreatedAt       time.Time
}

type Content struct {
	Subject string
	Body    string
}

func FormatPeso(amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if n <= 3 {
		return "PHP " + sign + s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return "PHP " + sign + b.String()
}

func BuildBookingRequest(adminName string, n BookingNotice) Content {
	if strings.TrimSpace(adminName) == "" {
		adminName = "Admin"
	}
	rate := "Standard"
	if n.Coach {
		rate = "Coach"
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", adminName),
		"",
		"A new court booking is waiting for review.",
		"",
		fmt.Sprintf("Customer: %s", n.CustomerName),
		fmt.Sprintf("Contact: %s", n.CustomerContact),
		fmt.Sprintf("Court: %s", n.Court),
		fmt.Sprintf("Date: %s", n.Date),
		fmt.Sprintf("Time: %s", strings.Join(n.Times, ", ")),
		fmt.Sprintf("Rate: %s", rate),
		fmt.Sprintf("Total: %s", FormatPeso(n.TotalPrice)),
		fmt.Sprintf("Request: %s", n.RequestID),
		"",
		"- Pickle Jar Courts",
	}

	return Content{
		Subject: fmt.Sprintf("New booking request - %s (%s)", n.CustomerName, n.Court),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildPendingDigest(adminName string, items []DigestItem) Content {
	if strings.TrimSpace(adminName) == "" {
		adminName = "Admin"
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", adminName),
		"",
		fmt.Sprintf("%d reservation(s) are still pending:", len(items)),
		"",
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("#%d  %s  %s %s  %s (%s)  %s",
			it.ID, it.Court, it.Date, it.TimeSlot, it.CustomerName, it.CustomerContact, FormatPeso(it.TotalPrice)))
	}
	lines = append(lines, "", "- Pickle Jar Courts")

	return Content{
		Subject: fmt.Sprintf("%d pending court reservation(s)", len(items)),
		Body:    strings.Join(lines, "\n"),
	}
}
