package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naluwan/wsa-backend/internal/models"
	"github.com/naluwan/wsa-backend/internal/services/entitlement"
)

func TestCanView_TableTests(t *testing.T) {
	paid := models.Unit{ID: 1, CourseCode: "astro-camp", IsFreePreview: false, XPReward: 100}
	preview := models.Unit{ID: 2, CourseCode: "astro-camp", IsFreePreview: true, XPReward: 50}

	tests := []struct {
		name            string
		isAuthenticated bool
		ownsCourse      bool
		unit            models.Unit
		want            bool
	}{
		{
			name:            "anonymous cannot view paid unit",
			isAuthenticated: false,
			ownsCourse:      false,
			unit:            paid,
			want:            false,
		},
		{
			name:            "anonymous with stale ownership flag still denied",
			isAuthenticated: false,
			ownsCourse:      true,
			unit:            paid,
			want:            false,
		},
		{
			name:            "anonymous can view free preview",
			isAuthenticated: false,
			ownsCourse:      false,
			unit:            preview,
			want:            true,
		},
		{
			name:            "authenticated non-owner cannot view paid unit",
			isAuthenticated: true,
			ownsCourse:      false,
			unit:            paid,
			want:            false,
		},
		{
			name:            "authenticated non-owner can view free preview",
			isAuthenticated: true,
			ownsCourse:      false,
			unit:            preview,
			want:            true,
		},
		{
			name:            "authenticated owner can view paid unit",
			isAuthenticated: true,
			ownsCourse:      true,
			unit:            paid,
			want:            true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entitlement.CanView(tt.isAuthenticated, tt.ownsCourse, tt.unit))
			// завершение использует тот же предикат, что и просмотр
			assert.Equal(t, tt.want, entitlement.CanComplete(tt.isAuthenticated, tt.ownsCourse, tt.unit))
		})
	}
}
