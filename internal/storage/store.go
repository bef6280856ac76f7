package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okrogh/thglab/internal/dynamo"
)

type Store struct {
	baseDir string
	seq     atomic.Uint64
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	DeltaBeta      float64            `json:"delta_beta"`
	N1             float64            `json:"n1"`
	N3             float64            `json:"n3"`
	Loss           float64            `json:"loss"`
	Length         float64            `json:"length"`
	Samples        int                `json:"samples"`
	Tolerance      float64            `json:"tolerance"`
	Integrator     string             `json:"integrator"`
	Metrics        map[string]float64 `json:"metrics"`
	InvariantDrift float64            `json:"invariant_drift"`
	StepsTaken     int                `json:"steps_taken"`
}

// Save writes one run as metadata.json plus a states.csv of the sampled
// trajectory, split into real and imaginary columns per field.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	// Sweeps store many runs within one second, so the timestamp alone
	// cannot name them. The counter disambiguates within a store and the
	// Mkdir existence check guards against a second process.
	var runID, runDir string
	for {
		runID = fmt.Sprintf("thg_%d_%03d", time.Now().Unix(), s.seq.Add(1))
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics
	meta.InvariantDrift = result.InvariantDrift
	meta.StepsTaken = result.StepsTaken

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"z"}
	for i := range result.States[0] {
		header = append(header,
			fmt.Sprintf("re_e%d", 2*i+1),
			fmt.Sprintf("im_e%d", 2*i+1),
		)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Z[i], 'e', 9, 64)}
		for _, val := range result.States[i] {
			row = append(row,
				strconv.FormatFloat(real(val), 'e', 9, 64),
				strconv.FormatFloat(imag(val), 'e', 9, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	zs := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 || len(record)%2 == 0 {
			continue
		}

		z, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make(dynamo.State, 0, (len(record)-1)/2)
		ok := true
		for j := 1; j+1 < len(record); j += 2 {
			re, err1 := strconv.ParseFloat(record[j], 64)
			im, err2 := strconv.ParseFloat(record[j+1], 64)
			if err1 != nil || err2 != nil {
				ok = false
				break
			}
			state = append(state, complex(re, im))
		}
		if !ok {
			continue
		}

		zs = append(zs, z)
		states = append(states, state)
	}

	return states, zs, nil
}
