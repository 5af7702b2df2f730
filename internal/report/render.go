// Package report renders a daily analysis report for its delivery channels:
// chat messages, a plain-text email body and a CSV export.
package report

import (
	"fmt"
	"strings"
	"time"

	"salespulse_backend/internal/analysis/domain"
)

const dateLayout = "Monday, January 2, 2006"

// ChatMessages renders one mrkdwn message per representative plus a team
// summary, in roster order.
func ChatMessages(r *domain.DailyReport) []string {
	messages := make([]string, 0, len(r.PerRep)+1)
	for _, rep := range r.PerRep {
		messages = append(messages, repMessage(r.Date, rep))
	}
	messages = append(messages, teamMessage(r.Date, r.Team))
	return messages
}

func repMessage(date time.Time, rep domain.RepReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s — %s*\n", rep.Rep, date.Format(dateLayout))
	fmt.Fprintf(&b, "Appointments booked: %d\n", rep.Daily.AppointmentsBooked)
	fmt.Fprintf(&b, "Appointments conducted: %d\n", rep.Daily.AppointmentsConducted)
	fmt.Fprintf(&b, "Appointments canceled: %d\n", rep.Daily.AppointmentsCanceled)
	fmt.Fprintf(&b, "New clients closed: %d (organic: %d)\n",
		rep.Daily.TotalNewClientsClosed, rep.Daily.NewClientsClosedOrganic)
	fmt.Fprintf(&b, "Rebuys: %d\n", rep.Daily.TotalRebuys)
	fmt.Fprintf(&b, "Revenue: %s (new: %s, rebuy: %s)\n",
		currency(rep.Daily.TotalRevenue), currency(rep.Daily.NewClientRevenue), currency(rep.Daily.RebuyRevenue))
	fmt.Fprintf(&b, "Daily show rate: %s\n", percent(rep.Daily.DailyShowRate))
	fmt.Fprintf(&b, "Running close rate: %s\n", percent(rep.Running.CloseRate))
	fmt.Fprintf(&b, "Running avg deal size: %s\n", currency(rep.Running.AverageDealSize))
	fmt.Fprintf(&b, "Running show rate: %s", percent(rep.Running.ShowRate))

	return b.String()
}

func teamMessage(date time.Time, team domain.TeamTotals) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Team — %s*\n", date.Format(dateLayout))
	fmt.Fprintf(&b, "Appointments booked: %d\n", team.AppointmentsBooked)
	fmt.Fprintf(&b, "Appointments conducted: %d\n", team.AppointmentsConducted)
	fmt.Fprintf(&b, "New clients closed: %d (organic: %d)\n",
		team.TotalNewClientsClosed, team.NewClientsClosedOrganic)
	fmt.Fprintf(&b, "Rebuys: %d\n", team.TotalRebuys)
	fmt.Fprintf(&b, "Revenue: %s\n", currency(team.TotalRevenue))
	fmt.Fprintf(&b, "Avg close rate: %s\n", percent(team.AvgCloseRate))
	fmt.Fprintf(&b, "Avg deal size: %s\n", currency(team.AvgAverageDealSize))
	fmt.Fprintf(&b, "Avg show rate: %s", percent(team.AvgShowRate))

	return b.String()
}

// EmailSubject builds the report email subject line.
func EmailSubject(date time.Time) string {
	return fmt.Sprintf("Daily sales report — %s", date.Format("2006-01-02"))
}

// EmailBody renders the whole report as plain text. Same content as the chat
// messages, without mrkdwn markers.
func EmailBody(r *domain.DailyReport) string {
	sections := ChatMessages(r)
	body := strings.Join(sections, "\n\n")
	return strings.ReplaceAll(body, "*", "")
}

func currency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
