package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"valid ticket update", CategoryTicketUpdate, true},
		{"valid payment status", CategoryPaymentStatus, true},
		{"valid system alert", CategorySystemAlert, true},
		{"valid admin message", CategoryAdminMessage, true},
		{"valid release update", CategoryReleaseUpdate, true},
		{"valid general", CategoryGeneral, true},
		{"invalid empty", Category(""), false},
		{"invalid other", Category("marketing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.IsValid())
		})
	}
}

func TestParseCategory_DegradesToGeneral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"known value", "ticket_update", CategoryTicketUpdate},
		{"unknown value", "something_new", CategoryGeneral},
		{"empty value", "", CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"valid low", PriorityLow, true},
		{"valid normal", PriorityNormal, true},
		{"valid high", PriorityHigh, true},
		{"valid urgent", PriorityUrgent, true},
		{"invalid empty", Priority(""), false},
		{"invalid other", Priority("critical"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.IsValid())
		})
	}
}

func TestParsePriority_DegradesToNormal(t *testing.T) {
	assert.Equal(t, PriorityUrgent, ParsePriority("urgent"))
	assert.Equal(t, PriorityNormal, ParsePriority("bogus"))
	assert.Equal(t, PriorityNormal, ParsePriority(""))
}

func TestPriority_ToastTTL(t *testing.T) {
	assert.Greater(t, PriorityUrgent.ToastTTL(), PriorityHigh.ToastTTL())
	assert.Greater(t, PriorityHigh.ToastTTL(), PriorityNormal.ToastTTL())
	assert.Greater(t, PriorityNormal.ToastTTL(), PriorityLow.ToastTTL())
}

func TestNotification_MarkRead(t *testing.T) {
	n := Notification{
		ID:        "n1",
		Title:     "Release approved",
		Status:    StatusUnread,
		Priority:  PriorityNormal,
		CreatedAt: time.Now(),
	}

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	changed := n.MarkRead(at)
	require.True(t, changed)
	assert.Equal(t, StatusRead, n.Status)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, at, *n.ReadAt)

	// Marking again is a no-op and keeps the original read timestamp.
	later := at.Add(time.Hour)
	changed = n.MarkRead(later)
	assert.False(t, changed)
	assert.Equal(t, at, *n.ReadAt)
}

func TestNotification_Validate(t *testing.T) {
	valid := Notification{
		ID:        "n1",
		Title:     "Payout sent",
		Category:  CategoryPaymentStatus,
		Priority:  PriorityNormal,
		Status:    StatusUnread,
		CreatedAt: time.Now(),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Notification)
	}{
		{"missing id", func(n *Notification) { n.ID = "" }},
		{"zero created_at", func(n *Notification) { n.CreatedAt = time.Time{} }},
		{"invalid status", func(n *Notification) { n.Status = "archived" }},
		{"invalid priority", func(n *Notification) { n.Priority = "critical" }},
		{"no title or message", func(n *Notification) { n.Title = ""; n.Message = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			assert.Error(t, n.Validate())
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	notifs := []Notification{
		{ID: "a", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "c", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", CreatedAt: base.Add(2 * time.Hour)},
	}

	SortNewestFirst(notifs)

	require.Len(t, notifs, 3)
	assert.Equal(t, "c", notifs[0].ID)
	assert.Equal(t, "b", notifs[1].ID)
	assert.Equal(t, "a", notifs[2].ID)
}

func TestCountUnread(t *testing.T) {
	notifs := []Notification{
		{ID: "a", Status: StatusUnread},
		{ID: "b", Status: StatusRead},
		{ID: "c", Status: StatusUnread},
	}
	assert.Equal(t, 2, CountUnread(notifs))
	assert.Equal(t, 0, CountUnread(nil))
}
