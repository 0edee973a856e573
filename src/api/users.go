package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biznex/bizconsole/src/models"
)

type UsersService struct {
	c *Client
}

func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.c.Do(ctx, Request{
		Name:   "List Users",
		Method: http.MethodGet,
		Path:   "/api/v1/users",
	}, &users)
	if IsKind(err, KindNoContent) {
		return []models.User{}, nil
	}
	return users, err
}

// Delete removes a user. The backend treats deleting a missing user as success.
func (s *UsersService) Delete(ctx context.Context, username string) error {
	return s.c.Do(ctx, Request{
		Name:   "Delete User",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/v1/users/%s", url.PathEscape(username)),
	}, nil)
}
