// Package client provides the read-only client profile the engine needs to
// validate an order: account state and contact data.
package client

import (
	"errors"
	"fmt"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var ErrClientIsNotConstructed = errors.New("Client must be created via NewClient constructor")

// AccountState is the client's account standing.
type AccountState string

const (
	AccountActive   AccountState = "Activo"
	AccountInactive AccountState = "Inactivo"
)

// ParseAccountState accepts either gender and any casing ("activa", "ACTIVO").
func ParseAccountState(raw string) (AccountState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "activo", "activa", "active":
		return AccountActive, nil
	case "inactivo", "inactiva", "inactive", "suspendido", "suspendida":
		return AccountInactive, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("account state", fmt.Errorf("%q is not a known account state", raw))
	}
}

// Client is identified by its user id.
type Client struct {
	id    kernel.UUID
	name  string
	phone string
	email string
	state AccountState

	isConstructed bool
}

// NewClient builds a client profile. Phone and email may be empty; validation of
// an order reports missing contact data instead of refusing the profile.
func NewClient(id kernel.UUID, name, phone, email string, state AccountState) (*Client, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if state != AccountActive && state != AccountInactive {
		return nil, errs.NewValueIsInvalidError("account state")
	}
	return &Client{
		id:            id,
		name:          strings.TrimSpace(name),
		phone:         strings.TrimSpace(phone),
		email:         strings.TrimSpace(email),
		state:         state,
		isConstructed: true,
	}, nil
}

func (c *Client) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrClientIsNotConstructed
	}
	return nil
}

func (c *Client) ID() kernel.UUID {
	return c.id
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Phone() string {
	return c.phone
}

func (c *Client) Email() string {
	return c.email
}

func (c *Client) State() AccountState {
	return c.state
}

func (c *Client) IsActive() bool {
	return c.state == AccountActive
}

// HasContactData reports whether both phone and email are on file.
func (c *Client) HasContactData() bool {
	return c.phone != "" && c.email != ""
}
