package minerva

// Types in this file mirror the JSON resources of the MINERVA platform REST
// API (https://minerva.pages.uni.lu/doc/). Only the fields the annotator
// reads are declared.

// Machine is one MINERVA instance registered in the MINERVA network.
type Machine struct {
	ID      int    `json:"id"`
	RootURL string `json:"rootUrl"`
}

// MachinesPage is the paged listing returned by /machines/.
type MachinesPage struct {
	PageContent []Machine `json:"pageContent"`
}

// Project is a disease map project hosted on a machine.
type Project struct {
	ProjectID string `json:"projectId"`
	MapName   string `json:"mapName"`
}

// ProjectsPage is the paged listing returned by /machines/{id}/projects/.
type ProjectsPage struct {
	PageContent []Project `json:"pageContent"`
}

// Model is one pathway diagram (submap) of a project.
type Model struct {
	IDObject int    `json:"idObject"`
	Name     string `json:"name"`
}

// Reference is an external identifier attached to an element.
type Reference struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
}

// Element is a bio-entity placed on a model: a protein, gene, RNA, drug,
// compartment etc., distinguished by Type.
type Element struct {
	Type       string      `json:"type"`
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	References []Reference `json:"references"`
}

// Reaction is one reaction drawn on a model.
type Reaction struct {
	IDObject int    `json:"idObject"`
	Type     string `json:"type"`
}

// Configuration is the (partial) configuration resource of a MINERVA
// instance; Version is its release version string.
type Configuration struct {
	Version string `json:"version"`
}

// MapInfo identifies one disease map in the MINERVA network.
type MapInfo struct {
	URL       string // root URL of the hosting machine
	MachineID int
	MapID     string // project ID on that machine
	Name      string // map name, e.g. "COVID19 Disease Map"
}

// MapComponents is the downloaded content of one disease map: its models and,
// optionally, the elements and reactions per model (keyed by model ID).
type MapComponents struct {
	MapURL    string
	MapID     string
	Models    []Model
	Elements  map[int][]Element
	Reactions map[int][]Reaction
}
