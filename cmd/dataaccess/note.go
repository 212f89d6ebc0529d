/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/dataaccess/registry"
)

func init() {
	registry.RegisterType("Note", func() *Note { return &Note{} })
	registry.RegisterKeyMap("Note", map[string]string{
		"PK": "NOTE#{id}",
		"SK": "NOTE",
	})
}

// Note is the entity managed by the CLI.
type Note struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body,omitempty"`
	Pinned    bool            `json:"pinned"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

func (*Note) EntityName() string { return "Note" }

func (*Note) IDField() string { return "id" }

func (n *Note) ToModel() (NoteView, error) {
	return NoteView{
		ID:      n.ID.String(),
		Title:   n.Title,
		Body:    n.Body,
		Pinned:  n.Pinned,
		Created: time.Time(n.CreatedAt).UTC(),
	}, nil
}

// NoteView is what the CLI prints.
type NoteView struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body,omitempty"`
	Pinned  bool      `json:"pinned"`
	Created time.Time `json:"created"`
}
