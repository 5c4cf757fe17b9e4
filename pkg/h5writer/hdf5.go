package h5writer

import (
	"fmt"

	"gonum.org/v1/hdf5"

	waveform "github.com/protodune/waveform_go/pkg"
)

type EventDataHDF5 struct {
	Run       int32  `hdf5:"run_number"`
	Event     int32  `hdf5:"evt_number"`
	Timestamp uint64 `hdf5:"timestamp"`
}

type PedestalHDF5 struct {
	Event   int32   `hdf5:"evt_number"`
	Channel int32   `hdf5:"channel"`
	Median  float64 `hdf5:"median"`
	Frugal  float64 `hdf5:"frugal"`
	RMS     float64 `hdf5:"rms"`
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &waveform.ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &waveform.ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func newDatasetPropList(chunks []uint, compressionLevel int) (*hdf5.PropList, error) {
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	if err := plist.SetChunk(chunks); err != nil {
		plist.Close()
		return nil, err
	}
	if compressionLevel > 0 {
		if err := plist.SetDeflate(compressionLevel); err != nil {
			plist.Close()
			return nil, err
		}
	}
	return plist, nil
}

// create2dArray creates a fixed nRows x nCols float32 dataset chunked by row.
func create2dArray(group *hdf5.Group, name string, nRows int, nCols int, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{uint(nRows), uint(nCols)}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return nil, &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	defer space.Close()

	chunkRows := nRows
	if chunkRows > 50 {
		chunkRows = 50
	}
	plist, err := newDatasetPropList([]uint{uint(chunkRows), uint(nCols)}, compressionLevel)
	if err != nil {
		return nil, &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_FLOAT, space, plist)
	if err != nil {
		return nil, &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// writeTable creates a 1D table of compound rows sized to fit rows and
// writes them. Empty tables are left unchunked.
func writeTable[T any](group *hdf5.Group, name string, rows *[]T, compressionLevel int) error {
	length := uint(len(*rows))
	space, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		return &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	defer space.Close()

	var zero T
	dtype, err := hdf5.NewDatatypeFromValue(zero)
	if err != nil {
		return &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	defer dtype.Close()

	var dset *hdf5.Dataset
	if length == 0 {
		dset, err = group.CreateDataset(name, dtype, space)
	} else {
		// chunks may not be larger than a fixed-size dataset
		chunk := min(length, 32768)
		var plist *hdf5.PropList
		plist, err = newDatasetPropList([]uint{chunk}, compressionLevel)
		if err != nil {
			return &waveform.ErrCreateTable{TableName: name, Err: err}
		}
		defer plist.Close()
		dset, err = group.CreateDatasetWith(name, dtype, space, plist)
	}
	if err != nil {
		return &waveform.ErrCreateTable{TableName: name, Err: err}
	}
	defer dset.Close()

	if length == 0 {
		return nil
	}
	if err := dset.Write(rows); err != nil {
		return fmt.Errorf("error writing table %s: %w", name, err)
	}
	return nil
}
