package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrInvalidQuiz  = errors.New("invalid quiz")
)

// Question types understood by clients.
const (
	TypeMCQ         = "mcq"
	TypeTrueFalse   = "true_false"
	TypeMultiselect = "multiselect"
	TypeTypeAnswer  = "type_answer"
)

// Quiz is one quiz definition: an ordered question list plus metadata.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Question is one entry in a quiz. TimerSec is advisory; the server never
// enforces it.
type Question struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Prompt   string   `json:"prompt"`
	TimerSec int      `json:"timer_sec,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Points   int      `json:"points,omitempty"`
	Options  []Option `json:"options"`
}

// Option is a possible answer.
type Option struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	Correct  bool   `json:"correct,omitempty"`
}

// QuizInfo is the listing view of a quiz.
type QuizInfo struct {
	Filename      string `json:"filename"`
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"question_count"`
}

// Manager handles quiz definition loading and caching.
type Manager struct {
	quizDir string
	quizzes map[string]*Quiz
	mu      sync.RWMutex
}

// NewManager creates a new content manager reading from quizDir.
func NewManager(quizDir string) (*Manager, error) {
	if _, err := os.Stat(quizDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("quiz directory does not exist: %s", quizDir)
	}

	return &Manager{
		quizDir: quizDir,
		quizzes: make(map[string]*Quiz),
	}, nil
}

// LoadQuiz loads a quiz definition by id (the filename without extension).
func (m *Manager) LoadQuiz(id string) (*Quiz, error) {
	m.mu.RLock()
	if quiz, exists := m.quizzes[id]; exists {
		m.mu.RUnlock()
		return quiz, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if quiz, exists := m.quizzes[id]; exists {
		return quiz, nil
	}

	filename := id
	if !strings.HasSuffix(filename, ".json") {
		filename = id + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.quizDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to read quiz file: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse quiz: %w", err)
	}
	if quiz.ID == "" {
		quiz.ID = id
	}

	if err := ValidateQuiz(&quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}

	m.quizzes[id] = &quiz
	return &quiz, nil
}

// ListQuizzes returns information about all quiz definitions on disk.
func (m *Manager) ListQuizzes() ([]*QuizInfo, error) {
	entries, err := os.ReadDir(m.quizDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz directory: %w", err)
	}

	var infos []*QuizInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		quiz, err := m.LoadQuiz(id)
		if err != nil {
			// Skip unreadable or invalid definitions
			continue
		}

		infos = append(infos, &QuizInfo{
			Filename:      entry.Name(),
			ID:            id,
			Title:         quiz.Title,
			Description:   quiz.Description,
			QuestionCount: len(quiz.Questions),
		})
	}

	return infos, nil
}

// RefreshCache drops all cached definitions so edits on disk are picked up.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes = make(map[string]*Quiz)
}

// ValidateQuiz performs the structural checks applied on every load.
func ValidateQuiz(quiz *Quiz) error {
	if quiz.ID == "" {
		return fmt.Errorf("quiz id is required")
	}
	if quiz.Title == "" {
		return fmt.Errorf("quiz title is required")
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz must have at least one question")
	}

	questionIDs := make(map[string]struct{}, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: id is required", i)
		}
		if _, dup := questionIDs[q.ID]; dup {
			return fmt.Errorf("question %d: duplicate id %q", i, q.ID)
		}
		questionIDs[q.ID] = struct{}{}

		if q.Prompt == "" {
			return fmt.Errorf("question %q: prompt is required", q.ID)
		}
		switch q.Type {
		case TypeMCQ, TypeTrueFalse, TypeMultiselect, TypeTypeAnswer:
		default:
			return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
		}
		if q.TimerSec < 0 {
			return fmt.Errorf("question %q: timer must not be negative", q.ID)
		}

		if q.Type == TypeTypeAnswer {
			continue // free-text questions carry no options
		}
		if len(q.Options) < 2 || len(q.Options) > 6 {
			return fmt.Errorf("question %q: need 2-6 options, got %d", q.ID, len(q.Options))
		}
		optionIDs := make(map[string]struct{}, len(q.Options))
		for j, opt := range q.Options {
			if opt.ID == "" {
				return fmt.Errorf("question %q: option %d: id is required", q.ID, j)
			}
			if _, dup := optionIDs[opt.ID]; dup {
				return fmt.Errorf("question %q: duplicate option id %q", q.ID, opt.ID)
			}
			optionIDs[opt.ID] = struct{}{}
		}
	}

	return nil
}
