package event

import "github.com/milk9111/worldmap/geom"

// Name identifies an event kind.
type Name string

const (
	NamePositionChanged   Name = "positionChanged"
	NameStateChanged      Name = "stateChanged"
	NameDirectionsSet     Name = "directionsSet"
	NameEntityAdded       Name = "entityAdded"
	NameEntityRemoved     Name = "entityRemoved"
	NameEntityChanged     Name = "entityChanged"
	NameBackgroundSet     Name = "backgroundSet"
	NameBackgroundCleared Name = "backgroundCleared"
	NameLayerAdded        Name = "layerAdded"
	NameLayerMoved        Name = "layerMoved"
	NameCellSizeChanged   Name = "cellSizeChanged"
	NameCameraChanged     Name = "cameraChanged"
	NameFlowStarted       Name = "flowStarted"
	NameFlowEnded         Name = "flowEnded"
	NameFlowAborted       Name = "flowAborted"
	NameModeChanged       Name = "modeChanged"
	NameSelectionChanged  Name = "selectionChanged"
)

// Event is implemented only by the payload types in this package.
type Event interface {
	Name() Name
	isEvent()
}

// Kind classifies model entities carried in entity events.
type Kind string

const (
	KindLocation  Kind = "location"
	KindPath      Kind = "path"
	KindLayer     Kind = "layer"
	KindPrimitive Kind = "primitive"
)

// Direction is a permitted drag axis of a handler.
type Direction string

const (
	DirX Direction = "x"
	DirY Direction = "y"
	DirZ Direction = "z"
)

// PositionChanged is emitted by a handler on every SetPosition and Reproject.
type PositionChanged struct {
	// OldPosition is nil when the emitter had no position before the call.
	OldPosition    *geom.Vec3
	NewPosition    geom.Vec3
	ScreenPosition geom.Vec2
}

// StateChanged is emitted by a handler when it is enabled or disabled.
type StateChanged struct {
	IsEnabled      bool
	Position       geom.Vec3
	ScreenPosition geom.Vec2
}

// DirectionsSet is emitted when a handler's drag directions are replaced.
type DirectionsSet struct {
	Directions []Direction
}

type EntityAdded struct {
	ID   string
	Kind Kind
}

type EntityRemoved struct {
	ID   string
	Kind Kind
}

type EntityChanged struct {
	ID   string
	Kind Kind
}

// BackgroundSet carries the background image file name and its encoded bytes.
type BackgroundSet struct {
	File string
	Data []byte
}

type BackgroundCleared struct{}

type LayerAdded struct {
	ID   string
	File string
}

type LayerMoved struct {
	ID       string
	Position geom.Vec2
}

type CellSizeChanged struct {
	CellSize [2]float64
}

type CameraChanged struct {
	X, Y, Zoom float64
}

type FlowStarted struct {
	Flow string
	Mode string
}

type FlowEnded struct {
	Flow string
	Mode string
}

// FlowAborted is emitted when an open flow is cancelled, either by the
// owning mode or by the host when the mode is deactivated.
type FlowAborted struct {
	Flow string
	Mode string
}

// ModeChanged carries mode names; an empty name means no active mode.
type ModeChanged struct {
	From string
	To   string
}

// SelectionChanged is emitted by the edit mode. An empty ID means nothing is selected.
type SelectionChanged struct {
	ID   string
	Kind Kind
}

func (PositionChanged) Name() Name   { return NamePositionChanged }
func (StateChanged) Name() Name      { return NameStateChanged }
func (DirectionsSet) Name() Name     { return NameDirectionsSet }
func (EntityAdded) Name() Name       { return NameEntityAdded }
func (EntityRemoved) Name() Name     { return NameEntityRemoved }
func (EntityChanged) Name() Name     { return NameEntityChanged }
func (BackgroundSet) Name() Name     { return NameBackgroundSet }
func (BackgroundCleared) Name() Name { return NameBackgroundCleared }
func (LayerAdded) Name() Name        { return NameLayerAdded }
func (LayerMoved) Name() Name        { return NameLayerMoved }
func (CellSizeChanged) Name() Name   { return NameCellSizeChanged }
func (CameraChanged) Name() Name     { return NameCameraChanged }
func (FlowStarted) Name() Name       { return NameFlowStarted }
func (FlowEnded) Name() Name         { return NameFlowEnded }
func (FlowAborted) Name() Name       { return NameFlowAborted }
func (ModeChanged) Name() Name       { return NameModeChanged }
func (SelectionChanged) Name() Name  { return NameSelectionChanged }

func (PositionChanged) isEvent()   {}
func (StateChanged) isEvent()      {}
func (DirectionsSet) isEvent()     {}
func (EntityAdded) isEvent()       {}
func (EntityRemoved) isEvent()     {}
func (EntityChanged) isEvent()     {}
func (BackgroundSet) isEvent()     {}
func (BackgroundCleared) isEvent() {}
func (LayerAdded) isEvent()        {}
func (LayerMoved) isEvent()        {}
func (CellSizeChanged) isEvent()   {}
func (CameraChanged) isEvent()     {}
func (FlowStarted) isEvent()       {}
func (FlowEnded) isEvent()         {}
func (FlowAborted) isEvent()       {}
func (ModeChanged) isEvent()       {}
func (SelectionChanged) isEvent()  {}
