// Package radarserver exposes target resolution over HTTP and gRPC.
//
// Both transports carry the same JSON document: a protocol list and a scan.
// Payloads are validated here so the radar core only sees well-typed input.
package radarserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/radar/internal/radar"
)

// ErrMalformedRequest is returned when a payload is missing fields or has
// fields of the wrong type.
var ErrMalformedRequest = errors.New("malformed request")

// Request is the wire form of a resolution request.
type Request struct {
	Protocols []string   `json:"protocols" yaml:"protocols"`
	Scan      []ScanItem `json:"scan" yaml:"scan"`
}

// ScanItem is the wire form of one sensed entity.
type ScanItem struct {
	Coordinates *Coordinates `json:"coordinates" yaml:"coordinates"`
	Enemies     *Enemies     `json:"enemies" yaml:"enemies"`
	// Allies is omitted when no allied reading exists.
	Allies *int `json:"allies,omitempty" yaml:"allies,omitempty"`
}

// Coordinates is the wire form of a position.
type Coordinates struct {
	X *float64 `json:"x" yaml:"x"`
	Y *float64 `json:"y" yaml:"y"`
}

// Enemies is the wire form of an enemy observation.
type Enemies struct {
	Type   string `json:"type" yaml:"type"`
	Number *int   `json:"number,omitempty" yaml:"number,omitempty"`
}

// DecodeRequest reads exactly one JSON request document from r.
//
// Postcondition: Returns the decoded Request or an error wrapping ErrMalformedRequest.
func DecodeRequest(r io.Reader) (Request, error) {
	dec := json.NewDecoder(r)
	var req Request
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if dec.More() {
		return Request{}, fmt.Errorf("%w: unexpected data after request document", ErrMalformedRequest)
	}
	return req, nil
}

// DecodeRequestYAML reads a YAML request document from r.
//
// Postcondition: Returns the decoded Request or an error wrapping ErrMalformedRequest.
func DecodeRequestYAML(r io.Reader) (Request, error) {
	var req Request
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return req, nil
}

// Domain validates req and converts it into the radar core's types.
//
// Postcondition: Returns the scan and protocols, or an error wrapping
// ErrMalformedRequest describing every shape violation, or an error wrapping
// radar.ErrInvalidProtocol naming every unknown protocol.
func (req Request) Domain() (radar.Scan, []radar.Protocol, error) {
	var errs []string
	if req.Protocols == nil {
		errs = append(errs, "protocols is required")
	}
	if req.Scan == nil {
		errs = append(errs, "scan is required")
	}

	scan := make(radar.Scan, 0, len(req.Scan))
	for i, item := range req.Scan {
		entry, itemErrs := item.entry(fmt.Sprintf("scan[%d]", i))
		errs = append(errs, itemErrs...)
		scan = append(scan, entry)
	}
	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMalformedRequest, strings.Join(errs, "; "))
	}

	protocols, err := radar.ParseProtocols(req.Protocols)
	if err != nil {
		return nil, nil, err
	}
	return scan, protocols, nil
}

func (item ScanItem) entry(path string) (radar.ScanEntry, []string) {
	var (
		e    radar.ScanEntry
		errs []string
	)
	switch {
	case item.Coordinates == nil:
		errs = append(errs, path+".coordinates is required")
	default:
		if item.Coordinates.X == nil {
			errs = append(errs, path+".coordinates.x is required")
		} else {
			e.Position.X = *item.Coordinates.X
		}
		if item.Coordinates.Y == nil {
			errs = append(errs, path+".coordinates.y is required")
		} else {
			e.Position.Y = *item.Coordinates.Y
		}
	}

	switch {
	case item.Enemies == nil:
		errs = append(errs, path+".enemies is required")
	default:
		e.Enemy.Type = radar.EnemyType(item.Enemies.Type)
		if !e.Enemy.Type.Valid() {
			errs = append(errs, fmt.Sprintf("%s.enemies.type must be one of [soldier, mech], got %q", path, item.Enemies.Type))
		}
		if n := item.Enemies.Number; n != nil {
			if *n < 0 {
				errs = append(errs, fmt.Sprintf("%s.enemies.number must be >= 0, got %d", path, *n))
			}
			e.Enemy.Count = *n
		}
	}

	if item.Allies != nil {
		if *item.Allies < 0 {
			errs = append(errs, fmt.Sprintf("%s.allies must be >= 0, got %d", path, *item.Allies))
		}
		n := *item.Allies
		e.Allies = &n
	}
	return e, errs
}
