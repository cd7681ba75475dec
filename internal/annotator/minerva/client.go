package minerva

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client talks to a MINERVA network endpoint and to the individual MINERVA
// machines it lists.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewClient returns a client for the given MINERVA network API endpoint
// (e.g. "https://minerva-net.lcsb.uni.lu/api"). A timeout of zero leaves the
// transport default in place.
func NewClient(endpoint string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Endpoint returns the network API endpoint this client queries.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create MINERVA request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "MINERVA request to %s failed", url)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read MINERVA response body")
	}
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("MINERVA endpoint %s returned status %d", url, res.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode MINERVA response from %s", url)
	}
	return nil
}

// Probe reports whether the network API answers the machine listing. It is
// the pre-flight availability check run once per annotation call.
func (c *Client) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/machines/", nil)
	if err != nil {
		return false
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", c.endpoint).
			Debug("MINERVA endpoint probe failed")
		return false
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	return res.StatusCode == http.StatusOK
}

// ListMachines lists the MINERVA instances known to the network endpoint.
func (c *Client) ListMachines(ctx context.Context) ([]Machine, error) {
	var page MachinesPage
	if err := c.getJSON(ctx, c.endpoint+"/machines/", &page); err != nil {
		return nil, err
	}
	return page.PageContent, nil
}

// ListProjects lists the projects hosted on one machine.
func (c *Client) ListProjects(ctx context.Context, machineID int) ([]Project, error) {
	var page ProjectsPage
	url := fmt.Sprintf("%s/machines/%d/projects/", c.endpoint, machineID)
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, err
	}
	return page.PageContent, nil
}

// ListMaps resolves every machine to its first hosted project. Machines
// without projects are skipped.
func (c *Client) ListMaps(ctx context.Context) ([]MapInfo, error) {
	machines, err := c.ListMachines(ctx)
	if err != nil {
		return nil, err
	}
	var maps []MapInfo
	for _, m := range machines {
		projects, err := c.ListProjects(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if len(projects) == 0 {
			continue
		}
		maps = append(maps, MapInfo{
			URL:       strings.TrimSuffix(m.RootURL, "/"),
			MachineID: m.ID,
			MapID:     projects[0].ProjectID,
			Name:      projects[0].MapName,
		})
	}
	return maps, nil
}

// GetConfiguration fetches the configuration of the machine at mapURL, which
// carries its version.
func (c *Client) GetConfiguration(ctx context.Context, mapURL string) (*Configuration, error) {
	var conf Configuration
	if err := c.getJSON(ctx, strings.TrimSuffix(mapURL, "/")+"/api/configuration/", &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ListModels lists the models (submaps) of a project.
func (c *Client) ListModels(ctx context.Context, mapURL, projectID string) ([]Model, error) {
	var models []Model
	url := fmt.Sprintf("%s/api/projects/%s/models/", strings.TrimSuffix(mapURL, "/"), projectID)
	if err := c.getJSON(ctx, url, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// ListElements lists the bio-entity elements of one model.
func (c *Client) ListElements(ctx context.Context, mapURL, projectID string, modelID int) ([]Element, error) {
	var elements []Element
	url := fmt.Sprintf("%s/api/projects/%s/models/%d/bioEntities/elements/",
		strings.TrimSuffix(mapURL, "/"), projectID, modelID)
	if err := c.getJSON(ctx, url, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// ListReactions lists the reactions of one model.
func (c *Client) ListReactions(ctx context.Context, mapURL, projectID string, modelID int) ([]Reaction, error) {
	var reactions []Reaction
	url := fmt.Sprintf("%s/api/projects/%s/models/%d/bioEntities/reactions/",
		strings.TrimSuffix(mapURL, "/"), projectID, modelID)
	if err := c.getJSON(ctx, url, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// MapComponents downloads the models of the named map and, if requested, the
// elements and reactions of every model. Requests run strictly sequentially.
func (c *Client) MapComponents(ctx context.Context, mapName string, withElements, withReactions bool) (*MapComponents, error) {
	maps, err := c.ListMaps(ctx)
	if err != nil {
		return nil, err
	}
	var info *MapInfo
	for i := range maps {
		if maps[i].Name == mapName {
			info = &maps[i]
			break
		}
	}
	if info == nil {
		return nil, errors.Errorf("map %q not found on the MINERVA network endpoint %s", mapName, c.endpoint)
	}

	models, err := c.ListModels(ctx, info.URL, info.MapID)
	if err != nil {
		return nil, err
	}
	comps := &MapComponents{
		MapURL: info.URL,
		MapID:  info.MapID,
		Models: models,
	}
	if withElements {
		comps.Elements = make(map[int][]Element, len(models))
		for _, model := range models {
			elements, err := c.ListElements(ctx, info.URL, info.MapID, model.IDObject)
			if err != nil {
				return nil, err
			}
			comps.Elements[model.IDObject] = elements
		}
	}
	if withReactions {
		comps.Reactions = make(map[int][]Reaction, len(models))
		for _, model := range models {
			reactions, err := c.ListReactions(ctx, info.URL, info.MapID, model.IDObject)
			if err != nil {
				return nil, err
			}
			comps.Reactions[model.IDObject] = reactions
		}
	}
	return comps, nil
}
