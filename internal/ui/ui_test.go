package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackNavigateAndGoBack(t *testing.T) {
	s := NewStack(ScreenCreateAppointment, Params{"providerId": "p1"})
	s.Navigate(ScreenAppointmentCreated, Params{"date": int64(1710079200000)})

	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, ScreenAppointmentCreated, s.Current().Screen)
	assert.Equal(t, int64(1710079200000), s.Current().Params["date"])

	s.GoBack()
	assert.Equal(t, ScreenCreateAppointment, s.Current().Screen)

	s.GoBack()
	assert.Equal(t, 1, s.Depth(), "root route must stay on the stack")
}

func TestAlertRecorderCopies(t *testing.T) {
	var r AlertRecorder
	r.Alert("title", "message")

	alerts := r.Alerts()
	alerts[0].Title = "changed"
	assert.Equal(t, "title", r.Alerts()[0].Title)
	assert.Len(t, r.Alerts(), 1)
}
