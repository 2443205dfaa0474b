package graphql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campuseats/models"

	gql "github.com/machinebox/graphql"
	"github.com/rs/zerolog/log"
)

// ErrUpstream wraps every failed call to the GraphQL API: transport errors,
// non-2xx responses and errors reported in the response's "errors" field.
var ErrUpstream = errors.New("graphql upstream error")

const canteensQuery = `query Canteens {
  canteens { id name location isOpen }
}`

const menuItemsQuery = `query MenuItems($canteenId: ID!) {
  menuItems(canteenId: $canteenId) {
    id canteenId name description category price isAvailable isVegetarian imageUrl
  }
}`

// Client talks to the campus food-ordering GraphQL API.
type Client struct {
	gql   *gql.Client
	token string
}

// NewClient builds a client for endpoint. An empty token sends no Authorization header.
func NewClient(endpoint, token string) *Client {
	c := gql.NewClient(endpoint, gql.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	c.Log = func(s string) { log.Trace().Str("endpoint", endpoint).Msg(s) }
	return &Client{gql: c, token: token}
}

// Do runs query with vars and decodes the "data" member into out.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	req := gql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.gql.Run(ctx, req, out); err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return nil
}

// ListCanteens fetches every canteen.
func (c *Client) ListCanteens(ctx context.Context) ([]models.Canteen, error) {
	var data struct {
		Canteens []models.Canteen `json:"canteens"`
	}
	if err := c.Do(ctx, canteensQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Canteens == nil {
		data.Canteens = []models.Canteen{}
	}
	return data.Canteens, nil
}

// ListMenuItems fetches the menu of one canteen.
func (c *Client) ListMenuItems(ctx context.Context, canteenID string) ([]models.MenuItem, error) {
	var data struct {
		MenuItems []models.MenuItem `json:"menuItems"`
	}
	if err := c.Do(ctx, menuItemsQuery, map[string]any{"canteenId": canteenID}, &data); err != nil {
		return nil, err
	}
	if data.MenuItems == nil {
		data.MenuItems = []models.MenuItem{}
	}
	return data.MenuItems, nil
}
