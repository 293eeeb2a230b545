package biz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

func TestCanEdit(t *testing.T) {
	movie := &biz.Movie{ID: "m1", AddedBy: "owner"}
	upcoming := &biz.UpcomingMovie{ID: "u1", AddedBy: "owner"}

	tests := []struct {
		name  string
		actor biz.Actor
		want  bool
	}{
		{"owner", biz.Actor{UserID: "owner"}, true},
		{"staff", biz.Actor{UserID: "staff", IsStaff: true}, true},
		{"owner and staff", biz.Actor{UserID: "owner", IsStaff: true}, true},
		{"other user", biz.Actor{UserID: "other"}, false},
		{"anonymous", biz.Actor{}, false},
		{"anonymous with staff flag", biz.Actor{IsStaff: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, biz.CanEdit(movie, tt.actor))
			assert.Equal(t, tt.want, biz.CanEdit(upcoming, tt.actor))
		})
	}
}

func TestCanDeleteReview(t *testing.T) {
	review := &biz.Review{ID: "r1", UserID: "author", MovieID: "m1"}

	assert.True(t, biz.CanDeleteReview(review, biz.Actor{UserID: "author"}))
	assert.False(t, biz.CanDeleteReview(review, biz.Actor{UserID: "other"}))
	assert.False(t, biz.CanDeleteReview(review, biz.Actor{UserID: "staff", IsStaff: true}))
	assert.False(t, biz.CanDeleteReview(review, biz.Actor{}))
}
