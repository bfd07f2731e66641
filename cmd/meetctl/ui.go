package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

var (
	primary = lipgloss.Color("#22d3ee")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")

	timeStyle  = lipgloss.NewStyle().Foreground(muted)
	errorStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	eventWidth = lipgloss.NewStyle().Width(20)
)

// eventStyle colours an event name by what it means for the room.
func eventStyle(ev models.Event) lipgloss.Style {
	switch ev {
	case models.EventConnected, models.EventUserConnected, models.EventMeetingStarted:
		return eventWidth.Foreground(success).Bold(true)
	case models.EventUserDisconnected, models.EventMeetingEnded:
		return eventWidth.Foreground(danger)
	case models.EventCameraToggled, models.EventMicToggled,
		models.EventSharingScreen, models.EventStopSharingScreen:
		return eventWidth.Foreground(warning)
	case models.EventParticipantsUpdated, models.EventOtherUsers:
		return eventWidth.Foreground(primary)
	}
	return eventWidth
}

func formatEvent(at time.Time, ev models.Event, summary string) string {
	return fmt.Sprintf("%s %s %s",
		timeStyle.Render(at.Format(time.TimeOnly)),
		eventStyle(ev).Render(string(ev)),
		summary)
}

func printError(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+msg)
}
