// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// public_test.go covers the unauthenticated surface: the cached public
// menu and the chat transcript intake.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublicMenu_CachesResponse(t *testing.T) {
	env := newTestEnv(t)
	_, restaurant := seedAccount(t, env)

	menu := `{"categories":[{"name":"Entrées","items":[{"name":"Soupe","price":"6,50"}]}]}`
	if _, err := env.Restaurants.Update(context.Background(), restaurant.ID, restaurant.DisplayName, restaurant.Slug, []byte(menu)); err != nil {
		t.Fatalf("menu update: %v", err)
	}

	req := authedRequest(http.MethodGet, "/r/"+restaurant.Slug+"/menu", nil, nil, nil, map[string]string{"slug": restaurant.Slug})
	rec := httptest.NewRecorder()
	env.Public.Menu(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first hit: got X-Cache %q, want MISS", got)
	}

	rec = httptest.NewRecorder()
	env.Public.Menu(rec, authedRequest(http.MethodGet, "/r/"+restaurant.Slug+"/menu", nil, nil, nil, map[string]string{"slug": restaurant.Slug}))
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second hit: got X-Cache %q, want HIT", got)
	}

	var body struct {
		Restaurant string `json:"restaurant"`
		Menu       struct {
			Categories []struct {
				Name string `json:"name"`
			} `json:"categories"`
		} `json:"menu"`
	}
	decodeBody(t, rec, &body)
	if body.Restaurant != restaurant.DisplayName {
		t.Errorf("restaurant: got %q", body.Restaurant)
	}
	if len(body.Menu.Categories) != 1 || body.Menu.Categories[0].Name != "Entrées" {
		t.Errorf("menu: got %+v", body.Menu)
	}
}

func TestPublicMenu_UnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	req := authedRequest(http.MethodGet, "/r/does-not-exist/menu", nil, nil, nil, map[string]string{"slug": "does-not-exist"})
	rec := httptest.NewRecorder()
	env.Public.Menu(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPublicMenu_MalformedDocumentDegradesToEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, restaurant := seedAccount(t, env)

	if _, err := env.Restaurants.Update(context.Background(), restaurant.ID, restaurant.DisplayName, restaurant.Slug, []byte(`{"categories": "oops"`)); err != nil {
		t.Fatalf("menu update: %v", err)
	}

	req := authedRequest(http.MethodGet, "/menu", nil, nil, nil, map[string]string{"slug": restaurant.Slug})
	rec := httptest.NewRecorder()
	env.Public.Menu(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Menu struct {
			Categories []any `json:"categories"`
		} `json:"menu"`
	}
	decodeBody(t, rec, &body)
	if len(body.Menu.Categories) != 0 {
		t.Errorf("categories: got %d, want 0", len(body.Menu.Categories))
	}
}

func TestRecordChat_StoresTranscript(t *testing.T) {
	env := newTestEnv(t)
	sess, restaurant := seedAccount(t, env)

	req := authedRequest(http.MethodPost, "/r/"+restaurant.Slug+"/chat", map[string]string{
		"user_prompt":     "Avez-vous des plats végétariens ?",
		"assistant_reply": "Oui, la salade de chèvre chaud.",
	}, nil, nil, map[string]string{"slug": restaurant.Slug})
	rec := httptest.NewRecorder()
	env.Public.RecordChat(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}

	rows, err := env.Chat.ListForTenant(context.Background(), sess.TenantID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list chat: %v", err)
	}
	if len(rows) != 1 || rows[0].UserPrompt != "Avez-vous des plats végétariens ?" {
		t.Errorf("chat rows: got %+v", rows)
	}
}

func TestRecordChat_RequiresPrompt(t *testing.T) {
	env := newTestEnv(t)
	_, restaurant := seedAccount(t, env)

	req := authedRequest(http.MethodPost, "/chat", map[string]string{
		"user_prompt": "",
	}, nil, nil, map[string]string{"slug": restaurant.Slug})
	rec := httptest.NewRecorder()
	env.Public.RecordChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
