package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/battlesnakeio/autopilot/api"
	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/pkg/errors"
)

type client struct {
	apiURL string
	client *http.Client
}

func (c *client) decode(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) beginGame(cr rules.CreateRequest) (string, error) {
	data, err := json.Marshal(cr)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Post(fmt.Sprintf("%s/games", c.apiURL), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	res := &api.CreateResponse{}
	if err := c.decode(resp, res); err != nil {
		return "", err
	}

	resp, err = c.client.Post(fmt.Sprintf("%s/games/%s/start", c.apiURL, res.ID), "application/json", nil)
	if err != nil {
		return "", err
	}
	if err := resp.Body.Close(); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unable to start game %s: %d", res.ID, resp.StatusCode)
	}
	return res.ID, nil
}

func (c *client) gameStatus(gameID string) (*controller.StatusResponse, []*board.GameFrame, error) {
	st := &controller.StatusResponse{}
	resp, err := c.client.Get(fmt.Sprintf("%s/games/%s", c.apiURL, gameID))
	if err != nil {
		return nil, nil, err
	}
	if err := c.decode(resp, st); err != nil {
		return nil, nil, err
	}

	var frames []*board.GameFrame
	for {
		var page []*board.GameFrame
		resp, err := c.client.Get(fmt.Sprintf("%s/games/%s/frames?offset=%d", c.apiURL, gameID, len(frames)))
		if err != nil {
			return nil, nil, err
		}
		if err := c.decode(resp, &page); err != nil {
			return nil, nil, err
		}
		frames = append(frames, page...)
		if len(page) < controller.MaxFrameLimit {
			return st, frames, nil
		}
	}
}
