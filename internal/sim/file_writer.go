package sim

import (
	"encoding/json"
	"os"

	"spacecombat-sim/internal/telemetry"
)

// FileWriter writes entity, event, and state rows to JSONL files.
type FileWriter struct {
	entityFile *os.File
	eventFile  *os.File
	stateFile  *os.File
	entityEnc  *json.Encoder
	eventEnc   *json.Encoder
	stateEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath or statePath may be empty to
// skip those logs.
func NewFileWriter(entityPath, eventPath, statePath string) (*FileWriter, error) {
	ef, err := os.Create(entityPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{entityFile: ef, entityEnc: json.NewEncoder(ef)}
	if eventPath != "" {
		evf, err := os.Create(eventPath)
		if err != nil {
			ef.Close()
			return nil, err
		}
		fw.eventFile = evf
		fw.eventEnc = json.NewEncoder(evf)
	}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			if fw.eventFile != nil {
				fw.eventFile.Close()
			}
			ef.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single entity row.
func (f *FileWriter) Write(row telemetry.EntityRow) error {
	return f.entityEnc.Encode(row)
}

// WriteBatch logs multiple entity rows.
func (f *FileWriter) WriteBatch(rows []telemetry.EntityRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single event row, if enabled.
func (f *FileWriter) WriteEvent(row telemetry.EventRow) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(row)
}

// WriteEvents logs multiple event rows.
func (f *FileWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		if err := f.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a session state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.SessionStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.entityFile != nil {
		if e := f.entityFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
