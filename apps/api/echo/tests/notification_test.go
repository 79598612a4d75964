package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alyusr/institute/core/notification"
)

func Test_NotificationAPI(t *testing.T) {
	env := setup(t)
	token := adminToken(t, env.conf)

	ctx := context.Background()
	n1, err := env.notifSvc.Create(ctx, "enrollment", "New enrollment", "Amina K. enrolled in Tajweed Foundations", "high")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = env.notifSvc.Create(ctx, "contact", "New message", "Omar B. sent a message", "normal"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	list := func(t *testing.T) []notification.Notification {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list code = %v; body %s", rec.Code, rec.Body.String())
		}
		var notifs []notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &notifs); err != nil {
			t.Fatalf("unmarshalling notifications: %v", err)
		}
		return notifs
	}

	notifs := list(t)
	if len(notifs) != 2 {
		t.Fatalf("notifications = %d; want 2", len(notifs))
	}
	for _, n := range notifs {
		if n.Read {
			t.Errorf("notification %s should start unread", n.ID)
		}
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/"+n1.ID+"/read", token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("markRead code = %v; body %s", rec.Code, rec.Body.String())
	}
	var read notification.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &read); err != nil {
		t.Fatalf("unmarshalling notification: %v", err)
	}
	if !read.Read {
		t.Error("notification should be read")
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/lol/read", token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("markRead unknown id code = %v; want 404", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/read-all", token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("markAllRead code = %v", rec.Code)
	}
	for _, n := range list(t) {
		if !n.Read {
			t.Errorf("notification %s should be read", n.ID)
		}
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/notifications", token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("destroyAll code = %v", rec.Code)
	}
	if notifs := list(t); len(notifs) != 0 {
		t.Errorf("notifications after clear = %d; want 0", len(notifs))
	}
}
