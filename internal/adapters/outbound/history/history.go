package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abdidvp/shipgate/internal/domain"
)

const historyFile = domain.StateDir + "/history/deployments.json"

// MaxEntries bounds the number of deployment logs kept on disk; the oldest
// are dropped first.
const MaxEntries = 100

// FileHistory implements domain.DeploymentHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Path returns the history file location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, historyFile)
}

func (h *FileHistory) Save(projectPath string, log *domain.DeploymentLog) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, *log)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	fp := Path(projectPath)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns the stored logs, oldest first. A missing file yields no entries.
func (h *FileHistory) Load(projectPath string) ([]domain.DeploymentLog, error) {
	data, err := os.ReadFile(Path(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.DeploymentLog
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
