package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskhub/internal/model"
)

const personsPath = "/api/v1/Personen"

func personPath(id uuid.UUID) string { return personsPath + "/" + id.String() }

func (c *Client) ListPersons(ctx context.Context) ([]model.Person, error) {
	var out []model.Person
	if err := c.do(ctx, http.MethodGet, personsPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Person{}
	}
	return out, nil
}

func (c *Client) GetPerson(ctx context.Context, id uuid.UUID) (model.Person, error) {
	var out model.Person
	err := c.do(ctx, http.MethodGet, personPath(id), nil, &out)
	return out, err
}

func (c *Client) CreatePerson(ctx context.Context, p model.Person) (model.Person, error) {
	var out model.Person
	err := c.do(ctx, http.MethodPost, personsPath, p, &out)
	return out, err
}

func (c *Client) UpdatePerson(ctx context.Context, p model.Person) (model.Person, error) {
	var out model.Person
	err := c.do(ctx, http.MethodPut, personPath(p.ID), p, &out)
	return out, err
}

func (c *Client) DeletePerson(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, personPath(id), nil, nil)
}
