package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/idilsaglam/taskhub/internal/model"
)

const tasksPath = "/api/tasks"

func taskPath(id int64) string { return tasksPath + "/" + strconv.FormatInt(id, 10) }

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out)
	return out, err
}

func (c *Client) AddTask(ctx context.Context, title string) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, tasksPath, model.CreateTaskRequest{Title: title}, &out)
	return out, err
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/toggle", nil, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, title string, done bool) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), model.UpdateTaskRequest{Title: title, Done: done}, &out)
	return out, err
}

func (c *Client) RemoveTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}
