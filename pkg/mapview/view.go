package mapview

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/routesync"
	"golang.org/x/exp/slices"
)

var (
	ErrNotReady       = errors.New("map view is not ready")
	ErrMarkerNotFound = errors.New("marker not found")
	ErrNoPath         = errors.New("no path rendered")
)

const maxToasts = 20

type renderedPath struct {
	id       int
	result   *directions.Result
	style    routesync.PathStyle
	onEdited func(*directions.Result)
}

type marker struct {
	id       string
	seq      int
	position itinerary.LatLng
	options  routesync.MarkerOptions
	events   routesync.MarkerEvents
}

type connector struct {
	id    string
	seq   int
	from  itinerary.LatLng
	to    itinerary.LatLng
	style routesync.ConnectorStyle
}

// View is an in memory map. It records what is drawn on it and lets callers
// play back the gestures a user would make on a real map.
type View struct {
	mutex sync.Mutex

	ready  bool
	nextID int

	path       *renderedPath
	markers    map[string]*marker
	connectors map[string]*connector
	toasts     []Toast
}

func New() *View {
	return &View{
		ready:      true,
		markers:    map[string]*marker{},
		connectors: map[string]*connector{},
	}
}

func (v *View) SetReady(ready bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.ready = ready
}

func (v *View) Ready() bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return v.ready
}

func (v *View) RenderPath(result *directions.Result, style routesync.PathStyle, onEdited func(*directions.Result)) (routesync.Handle, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.ready {
		return nil, ErrNotReady
	}

	v.nextID++
	v.path = &renderedPath{
		id:       v.nextID,
		result:   result,
		style:    style,
		onEdited: onEdited,
	}

	id := v.nextID
	return handleFunc(func() {
		v.mutex.Lock()
		defer v.mutex.Unlock()

		if v.path != nil && v.path.id == id {
			v.path = nil
		}
	}), nil
}

func (v *View) PlaceMarker(position itinerary.LatLng, options routesync.MarkerOptions, events routesync.MarkerEvents) (routesync.Handle, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.ready {
		return nil, ErrNotReady
	}

	v.nextID++
	id := fmt.Sprintf("marker-%d", v.nextID)
	v.markers[id] = &marker{
		id:       id,
		seq:      v.nextID,
		position: position,
		options:  options,
		events:   events,
	}

	return handleFunc(func() {
		v.mutex.Lock()
		defer v.mutex.Unlock()

		delete(v.markers, id)
	}), nil
}

func (v *View) DrawConnector(from itinerary.LatLng, to itinerary.LatLng, style routesync.ConnectorStyle) (routesync.Handle, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.ready {
		return nil, ErrNotReady
	}

	v.nextID++
	id := fmt.Sprintf("connector-%d", v.nextID)
	v.connectors[id] = &connector{
		id:    id,
		seq:   v.nextID,
		from:  from,
		to:    to,
		style: style,
	}

	return handleFunc(func() {
		v.mutex.Lock()
		defer v.mutex.Unlock()

		delete(v.connectors, id)
	}), nil
}

// DragMarker moves the marker like a user drag from start to end
func (v *View) DragMarker(id string, position itinerary.LatLng) error {
	v.mutex.Lock()
	m, ok := v.markers[id]
	if !ok {
		v.mutex.Unlock()
		return ErrMarkerNotFound
	}
	if !m.options.Draggable {
		v.mutex.Unlock()
		return fmt.Errorf("marker %s is not draggable", id)
	}
	m.position = position
	events := m.events
	v.mutex.Unlock()

	if events.OnDragStart != nil {
		events.OnDragStart()
	}
	if events.OnDragEnd != nil {
		events.OnDragEnd(position)
	}

	return nil
}

func (v *View) DoubleClickMarker(id string) error {
	v.mutex.Lock()
	m, ok := v.markers[id]
	if !ok {
		v.mutex.Unlock()
		return ErrMarkerNotFound
	}
	events := m.events
	v.mutex.Unlock()

	if events.OnDoubleClick != nil {
		events.OnDoubleClick()
	}

	return nil
}

// EditPath replaces the via points of the rendered legs, as dragging the
// path itself would, and reports the edited result.
// Legs beyond the given list keep their via points.
func (v *View) EditPath(viaWaypoints [][]itinerary.LatLng) error {
	v.mutex.Lock()
	if v.path == nil {
		v.mutex.Unlock()
		return ErrNoPath
	}
	if len(viaWaypoints) > len(v.path.result.Legs) {
		v.mutex.Unlock()
		return fmt.Errorf("path has %d legs, got via points for %d", len(v.path.result.Legs), len(viaWaypoints))
	}

	edited := &directions.Result{}
	if err := copier.CopyWithOption(edited, v.path.result, copier.Option{DeepCopy: true}); err != nil {
		v.mutex.Unlock()
		return err
	}
	edited.Polyline = nil

	for i, via := range viaWaypoints {
		edited.Legs[i].ViaWaypoints = slices.Clone(via)
		edited.Legs[i].Path = append(append([]itinerary.LatLng{edited.Legs[i].StartLocation}, via...), edited.Legs[i].EndLocation)
	}

	v.path.result = edited
	onEdited := v.path.onEdited
	v.mutex.Unlock()

	if onEdited != nil {
		onEdited(edited)
	}

	return nil
}

// MarkerIDs lists the markers in the order they were placed
func (v *View) MarkerIDs() []string {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	markers := make([]*marker, 0, len(v.markers))
	for _, m := range v.markers {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool {
		return markers[i].seq < markers[j].seq
	})

	ids := make([]string, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.id)
	}

	return ids
}

func (v *View) Success(message string) {
	v.addToast(Toast{Level: "success", Message: message})
	log.Info().Msg(message)
}

func (v *View) Failure(message string, err error) {
	toast := Toast{Level: "error", Message: message}
	if err != nil {
		toast.Error = err.Error()
	}
	v.addToast(toast)
	log.Error().Err(err).Msg(message)
}

func (v *View) addToast(toast Toast) {
	toast.Time = time.Now()

	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.toasts = append(v.toasts, toast)
	if len(v.toasts) > maxToasts {
		v.toasts = v.toasts[len(v.toasts)-maxToasts:]
	}
}

type handleFunc func()

func (f handleFunc) Remove() {
	f()
}
