// Package h5writer stores pedestal-subtracted detector views and pedestal
// tables in HDF5 files.
package h5writer

import (
	"fmt"

	"gonum.org/v1/hdf5"

	waveform "github.com/protodune/waveform_go/pkg"
)

// Writer stores views as they come. Event and pedestal rows are kept in
// memory and written as /Run/events and /Pedestals/summary on Close.
type Writer struct {
	File           *hdf5.File
	Filename       string
	RunGroup       *hdf5.Group
	RDGroup        *hdf5.Group
	PedestalGroup  *hdf5.Group
	Events         []EventDataHDF5
	Pedestals      []PedestalHDF5
	EvtCounter     int
	PedCounter     int
	CompressionLvl int
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	file, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	w := &Writer{File: file, Filename: filename, CompressionLvl: compressionLevel}

	if w.RunGroup, err = createGroup(file, "Run"); err != nil {
		w.Close()
		return nil, err
	}
	if w.RDGroup, err = createGroup(file, "RD"); err != nil {
		w.Close()
		return nil, err
	}
	if w.PedestalGroup, err = createGroup(file, "Pedestals"); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// ViewName is the dataset name of a view, e.g. "apa3_z_both".
func ViewName(apa int, view waveform.View, side waveform.Side) string {
	return fmt.Sprintf("apa%d_%s_%s", apa, view, side)
}

func (w *Writer) WriteEvent(info waveform.EventInfo) error {
	w.Events = append(w.Events, EventDataHDF5{
		Run:       int32(info.Run),
		Event:     int32(info.Event),
		Timestamp: info.Timestamp,
	})
	w.EvtCounter++
	return nil
}

// WriteView stores the ADCs of s as /RD/<name> and the channel numbers as
// /RD/<name>_channels.
func (w *Writer) WriteView(name string, s waveform.Waveforms) error {
	if s.Len() == 0 || s.NSamples() == 0 {
		return fmt.Errorf("view %s is empty", name)
	}
	dset, err := create2dArray(w.RDGroup, name, s.Len(), s.NSamples(), w.CompressionLvl)
	if err != nil {
		return err
	}
	defer dset.Close()

	flat := s.Flatten()
	data := make([]float32, len(flat))
	for i, v := range flat {
		data[i] = float32(v)
	}
	if err := dset.Write(&data); err != nil {
		return fmt.Errorf("error writing view %s: %w", name, err)
	}

	chans := make([]int32, s.Len())
	for i, row := range s.Rows {
		chans[i] = int32(row.Channel)
	}
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(chans))}, nil)
	if err != nil {
		return &waveform.ErrCreateTable{TableName: name + "_channels", Err: err}
	}
	defer space.Close()
	cdset, err := w.RDGroup.CreateDataset(name+"_channels", hdf5.T_NATIVE_INT32, space)
	if err != nil {
		return &waveform.ErrCreateTable{TableName: name + "_channels", Err: err}
	}
	defer cdset.Close()
	if err := cdset.Write(&chans); err != nil {
		return fmt.Errorf("error writing channels of view %s: %w", name, err)
	}
	return nil
}

func (w *Writer) WritePedestals(peds []waveform.PedestalSummary) error {
	for _, p := range peds {
		w.Pedestals = append(w.Pedestals, PedestalHDF5{
			Event:   int32(p.Event),
			Channel: int32(p.Channel),
			Median:  p.Median,
			Frugal:  p.Frugal,
			RMS:     p.RMS,
		})
	}
	w.PedCounter += len(peds)
	return nil
}

// Close writes the tables and closes the file. The file is closed even when
// writing a table fails.
func (w *Writer) Close() error {
	var err error
	if w.RunGroup != nil && w.PedestalGroup != nil {
		err = writeTable(w.RunGroup, "events", &w.Events, w.CompressionLvl)
		if perr := writeTable(w.PedestalGroup, "summary", &w.Pedestals, w.CompressionLvl); err == nil {
			err = perr
		}
	}
	for _, g := range []*hdf5.Group{w.RunGroup, w.RDGroup, w.PedestalGroup} {
		if g != nil {
			g.Close()
		}
	}
	if cerr := w.File.Close(); err == nil {
		err = cerr
	}
	return err
}
