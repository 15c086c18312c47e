package study

import (
	"sort"
)

// SessionQuestion is the per-session snapshot of one question: the prompt,
// its shuffled option texts, and the grading answer. The snapshot is frozen
// at session start; concurrent edits are picked up on the next session.
type SessionQuestion struct {
	ID          uint     `json:"id"`
	QuizID      uint     `json:"quiz_id"`
	Text        string   `json:"text"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Tags        string   `json:"tags"`
	Box         int      `json:"box"`
	Options     []string `json:"options"`
}

// TagTally accumulates per-tag attempt counts within one session.
type TagTally struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// State is the full in-memory state of one study session. It is a value:
// Apply returns a new State and never mutates the receiver, so the
// transition function can be tested without any transport or storage.
type State struct {
	Questions []SessionQuestion   `json:"questions"`
	Index     int                 `json:"index"`
	Correct   int                 `json:"correct"`
	Wrong     int                 `json:"wrong"`
	TagStats  map[string]TagTally `json:"tag_stats"`
	// WrongByIndex counts wrong attempts per question, keyed by the
	// question's position in the session sequence so that ties in the
	// hardest list break by encounter order.
	WrongByIndex map[int]int `json:"wrong_by_index"`
	Finished     bool        `json:"finished"`
}

// NewState starts a session over the given frozen question sequence.
func NewState(questions []SessionQuestion) State {
	return State{
		Questions:    questions,
		TagStats:     map[string]TagTally{},
		WrongByIndex: map[int]int{},
	}
}

// Empty reports whether the session has no questions — a first-class state
// the caller renders as "nothing to study", not an error.
func (s State) Empty() bool {
	return len(s.Questions) == 0
}

// Current returns the question at the cursor, or nil when the session is
// empty or finished.
func (s State) Current() *SessionQuestion {
	if s.Finished || s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// Answered reports how many attempts have been recorded.
func (s State) Answered() int {
	return s.Correct + s.Wrong
}

// Apply records an attempt on the question at the given sequence position
// and returns the new state. A multi-tag question counts once toward every
// one of its tags.
func (s State) Apply(index int, correct bool) State {
	if index < 0 || index >= len(s.Questions) {
		return s
	}
	next := s
	next.TagStats = make(map[string]TagTally, len(s.TagStats)+1)
	for k, v := range s.TagStats {
		next.TagStats[k] = v
	}
	next.WrongByIndex = make(map[int]int, len(s.WrongByIndex)+1)
	for k, v := range s.WrongByIndex {
		next.WrongByIndex[k] = v
	}

	q := s.Questions[index]
	for _, tag := range ParseTags(q.Tags) {
		key := NormalizeTag(tag)
		if key == "" {
			continue
		}
		tally := next.TagStats[key]
		tally.Total++
		if correct {
			tally.Correct++
		}
		next.TagStats[key] = tally
	}

	if correct {
		next.Correct++
	} else {
		next.Wrong++
		next.WrongByIndex[index]++
	}
	return next
}

// AdvanceCursor moves to the next question, marking the session finished
// past the last one.
func (s State) AdvanceCursor() State {
	next := s
	next.Index++
	if next.Index >= len(next.Questions) {
		next.Index = len(next.Questions)
		next.Finished = true
	}
	return next
}

// TagScore is the per-tag outcome of a finished session.
type TagScore struct {
	Tag      string `json:"tag"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Wrong    int    `json:"wrong"`
	Accuracy int    `json:"accuracy"`
}

// HardQuestion is an entry in the hardest-questions list.
type HardQuestion struct {
	ID     uint   `json:"id"`
	QuizID uint   `json:"quiz_id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
	Tags   string `json:"tags"`
	Wrongs int    `json:"wrongs"`
}

// Summary is the end-of-session report. It is computed from State and
// discarded with it; lifetime counters live on the question rows.
type Summary struct {
	Total    int            `json:"total"`
	Answered int            `json:"answered"`
	Correct  int            `json:"correct"`
	Wrong    int            `json:"wrong"`
	Accuracy int            `json:"accuracy"`
	ByTag    []TagScore     `json:"by_tag"`
	Hardest  []HardQuestion `json:"hardest"`
}

// maxHardest caps the hardest-questions list.
const maxHardest = 10

// Summarize folds a session state into its final report.
func Summarize(s State) Summary {
	sum := Summary{
		Total:    len(s.Questions),
		Answered: s.Answered(),
		Correct:  s.Correct,
		Wrong:    s.Wrong,
		Accuracy: Percent(s.Correct, s.Answered()),
	}

	sum.ByTag = make([]TagScore, 0, len(s.TagStats))
	for tag, tally := range s.TagStats {
		sum.ByTag = append(sum.ByTag, TagScore{
			Tag:      tag,
			Total:    tally.Total,
			Correct:  tally.Correct,
			Wrong:    tally.Total - tally.Correct,
			Accuracy: Percent(tally.Correct, tally.Total),
		})
	}
	sort.Slice(sum.ByTag, func(i, j int) bool {
		return sum.ByTag[i].Tag < sum.ByTag[j].Tag
	})

	indexes := make([]int, 0, len(s.WrongByIndex))
	for idx := range s.WrongByIndex {
		indexes = append(indexes, idx)
	}
	// Encounter order first, then a stable sort by descending wrong count
	// keeps ties in encounter order.
	sort.Ints(indexes)
	sort.SliceStable(indexes, func(i, j int) bool {
		return s.WrongByIndex[indexes[i]] > s.WrongByIndex[indexes[j]]
	})
	if len(indexes) > maxHardest {
		indexes = indexes[:maxHardest]
	}
	sum.Hardest = make([]HardQuestion, 0, len(indexes))
	for _, idx := range indexes {
		q := s.Questions[idx]
		sum.Hardest = append(sum.Hardest, HardQuestion{
			ID:     q.ID,
			QuizID: q.QuizID,
			Text:   q.Text,
			Answer: q.Answer,
			Tags:   q.Tags,
			Wrongs: s.WrongByIndex[idx],
		})
	}
	return sum
}

// Percent computes round(correct/total*100), returning 0 when total is 0
// so empty sessions never divide by zero.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
