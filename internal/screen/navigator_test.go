package screen

import (
	"testing"

	"github.com/datadash/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNavigator_StartsHome(t *testing.T) {
	assert.Equal(t, models.ScreenHome, NewNavigator().Current())
}

func TestNavigator_AnyToAny(t *testing.T) {
	all := []models.Screen{models.ScreenHome, models.ScreenLogin, models.ScreenDashboard}

	for _, from := range all {
		for _, to := range all {
			n := NewNavigator()
			n.Navigate(from)
			assert.Equal(t, to, n.Navigate(to), "%s -> %s", from, to)
			assert.Equal(t, to, n.Current())
		}
	}
}

func TestNavigator_UnknownFallsBackHome(t *testing.T) {
	n := NewNavigator()
	n.Navigate(models.ScreenDashboard)

	assert.Equal(t, models.ScreenHome, n.Navigate(models.Screen("settings")))
	assert.Equal(t, models.ScreenHome, n.Current())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		want   models.Screen
		wantOK bool
	}{
		{"home", models.ScreenHome, true},
		{"login", models.ScreenLogin, true},
		{"dashboard", models.ScreenDashboard, true},
		{" Dashboard ", models.ScreenDashboard, true},
		{"", models.ScreenHome, false},
		{"admin", models.ScreenHome, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestActions(t *testing.T) {
	home := Actions(models.ScreenHome)
	assert.Equal(t, []models.ScreenAction{{Label: "Login", Target: models.ScreenLogin}}, home)

	login := Actions(models.ScreenLogin)
	assert.Len(t, login, 2)
	assert.Equal(t, models.ScreenDashboard, login[0].Target)
	assert.Empty(t, login[1].Target, "sign up goes nowhere")

	assert.Empty(t, Actions(models.ScreenDashboard))
	assert.Equal(t, home, Actions(models.Screen("bogus")))

	// Callers cannot mutate the table
	home[0].Label = "changed"
	assert.Equal(t, "Login", Actions(models.ScreenHome)[0].Label)
}
