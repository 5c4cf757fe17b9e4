package waveform

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrNoChannels is returned when a detector selection matches no rows.
type ErrNoChannels struct {
	APA  int
	View View
	Side Side
}

func (e *ErrNoChannels) Error() string {
	return fmt.Sprintf("no channels in input for apa %d view %s wall/cryo %s", e.APA, e.View, e.Side)
}

// ErrInvalidSelection represents an impossible view/side combination.
type ErrInvalidSelection struct {
	View View
	Side Side
}

func (e *ErrInvalidSelection) Error() string {
	return fmt.Sprintf("side %s is only defined for the z view, got view %s", e.Side, e.View)
}

// ErrInvalidRange is returned by StringToIntList.
type ErrInvalidRange struct {
	Input string
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range string %q", e.Input)
}

// ErrMalformedRow represents a row that cannot be parsed or has the wrong length.
type ErrMalformedRow struct {
	Filename string
	Line     int
	Reason   string
}

func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Reason)
}

// ErrChannelNotFound is returned when a channel lookup does not match exactly one row.
type ErrChannelNotFound struct {
	Channel int
	Matches int
}

func (e *ErrChannelNotFound) Error() string {
	return fmt.Sprintf("channel %d: expected exactly one row, found %d", e.Channel, e.Matches)
}

// ErrUnsupportedDtype represents a numpy array we do not know how to read.
type ErrUnsupportedDtype struct {
	Filename string
	Dtype    string
	Shape    []int
}

func (e *ErrUnsupportedDtype) Error() string {
	return fmt.Sprintf("unsupported numpy array in %q: dtype %s shape %v", e.Filename, e.Dtype, e.Shape)
}
