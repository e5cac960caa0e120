// Package activity binds the activity stream and notification endpoints.
package activity

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Item is one activity. Actor and Object stay untyped maps because their
// shape depends on the entity kind.
type Item struct {
	ActivityType string         `json:"oae:activityType"`
	ActivityID   string         `json:"oae:activityId"`
	Verb         string         `json:"verb"`
	Published    int64          `json:"published"`
	Actor        map[string]any `json:"actor"`
	Object       map[string]any `json:"object"`
	Target       map[string]any `json:"target"`
}

// Stream is a page of activities.
type Stream struct {
	Items     []Item `json:"items"`
	NextToken string `json:"nextToken"`
}

// ListOpts pages a stream.
type ListOpts struct {
	Start string
	Limit int
}

func (o *ListOpts) params() rest.Params {
	if o == nil {
		return nil
	}
	return rest.Params{
		"start": rest.OptString(o.Start),
		"limit": rest.OptInt(o.Limit),
	}
}

// ActivityStream reads an activity stream by id, for example
// "u:cam:abc123-activity".
func ActivityStream(ctx context.Context, rc *rest.Context, streamID string, opts *ListOpts) (*Stream, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/activity/"+url.PathEscape(streamID), opts.params())
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := res.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Notifications reads the current user's notification stream.
func Notifications(ctx context.Context, rc *rest.Context, opts *ListOpts) (*Stream, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/notifications", opts.params())
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := res.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkNotificationsRead clears the unread notification counter.
func MarkNotificationsRead(ctx context.Context, rc *rest.Context) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/notifications/markRead", nil)
	return err
}
