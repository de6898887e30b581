package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/battlesnakeio/autopilot/api"
	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/pkg/errors"
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("api returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "unable to unmarshal response %q", data)
	}
	return nil
}

func createGame(req rules.CreateRequest) (*api.CreateResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal request")
	}
	resp, err := httpClient.Post(fmt.Sprintf("%s/games", apiAddr), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, errors.Wrap(err, "error while posting to create endpoint")
	}
	cr := &api.CreateResponse{}
	return cr, decodeResponse(resp, cr)
}

func startGame(id string) error {
	resp, err := httpClient.Post(fmt.Sprintf("%s/games/%s/start", apiAddr, id), "application/json", nil)
	if err != nil {
		return errors.Wrap(err, "error while posting to start endpoint")
	}
	return decodeResponse(resp, &struct{}{})
}

func getStatus(id string) (*controller.StatusResponse, error) {
	resp, err := httpClient.Get(fmt.Sprintf("%s/games/%s", apiAddr, id))
	if err != nil {
		return nil, errors.Wrap(err, "error while getting status")
	}
	sr := &controller.StatusResponse{}
	return sr, decodeResponse(resp, sr)
}

// getFrames pages through every stored frame of a game.
func getFrames(id string) ([]*board.GameFrame, error) {
	var all []*board.GameFrame
	for {
		resp, err := httpClient.Get(fmt.Sprintf("%s/games/%s/frames?offset=%d&limit=%d",
			apiAddr, id, len(all), controller.MaxFrameLimit))
		if err != nil {
			return nil, errors.Wrap(err, "error while getting frames")
		}
		var page []*board.GameFrame
		if err := decodeResponse(resp, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < controller.MaxFrameLimit {
			return all, nil
		}
	}
}
