package client

import (
	"context"
	"fmt"
)

// Controller runs API calls and records their outcome in a Store.
type Controller struct {
	api   *Client
	store *Store
}

func NewController(api *Client, store *Store) *Controller {
	return &Controller{api: api, store: store}
}

func (c *Controller) Store() *Store { return c.store }

func (c *Controller) Login(ctx context.Context, email, password string) error {
	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.store.Dispatch(RequestFailed{Err: err})
		return err
	}
	c.store.Dispatch(LoggedIn{Email: email, Token: token})
	return nil
}

// Logout revokes the token and resets the state even when the server call fails.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)
	c.api.SetToken("")
	c.store.Dispatch(LoggedOut{})
	return err
}

func (c *Controller) LoadProducts(ctx context.Context, params ListParams) error {
	c.store.Dispatch(ProductsRequested{})
	page, err := c.api.ListProducts(ctx, params)
	if err != nil {
		return c.fail(err)
	}
	c.store.Dispatch(ProductsLoaded{Page: page})
	return nil
}

func (c *Controller) LoadCategories(ctx context.Context) error {
	categories, err := c.api.ListCategories(ctx)
	if err != nil {
		return c.fail(err)
	}
	c.store.Dispatch(CategoriesLoaded{Categories: categories})
	return nil
}

func (c *Controller) Toggle(id int) {
	c.store.Dispatch(SelectionToggled{ID: id})
}

// DeleteSelected deletes the selected products, clears the selection and
// refetches the page that was on screen.
func (c *Controller) DeleteSelected(ctx context.Context) (int, error) {
	state := c.store.State()
	if len(state.Selection) == 0 {
		return 0, nil
	}

	ids := state.Selection
	deleted, err := c.api.DeleteProducts(ctx, ids)
	if err != nil {
		return 0, c.fail(err)
	}
	c.store.Dispatch(ProductsDeleted{IDs: ids})

	params := ListParams{}
	if state.Products != nil {
		params.Page = state.Products.CurrentPage
		params.PerPage = state.Products.PerPage
	}
	if err := c.LoadProducts(ctx, params); err != nil {
		return deleted, fmt.Errorf("reload after delete: %w", err)
	}
	return deleted, nil
}

// fail records err. A 401 means the token is gone, so the session is reset.
func (c *Controller) fail(err error) error {
	if IsUnauthenticated(err) {
		c.api.SetToken("")
		c.store.Dispatch(LoggedOut{})
		return err
	}
	c.store.Dispatch(RequestFailed{Err: err})
	return err
}
