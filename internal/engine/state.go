package engine

type Phase string

const (
	PhaseDrawing  Phase = "drawing"
	PhaseGuessing Phase = "guessing"
	PhaseGameOver Phase = "game_over"
)

// Reveal is the recorded outcome of a guess under one clue-giver's
// perspective. The zero value means the cell has not been resolved yet.
type Reveal string

const (
	RevealUnset    Reveal = ""
	RevealGreen    Reveal = "green"
	RevealNeutral  Reveal = "neutral"
	RevealAssassin Reveal = "assassin"
)

type Role string

const (
	RoleDrawer    Role = "drawer"
	RoleGuesser   Role = "guesser"
	RoleSpectator Role = "spectator"
)

// Point is an [x, y] canvas coordinate.
type Point [2]float64

// Stroke is one freehand segment. Tool is an opaque rendering hint
// ("pen" or "eraser"); the engine carries it but never interprets it.
type Stroke struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  int     `json:"width"`
	Tool   string  `json:"tool"`
}

// State is one room's full game state. It is only ever mutated through
// Apply, and only from the owning room goroutine.
type State struct {
	Words [GridSize]string
	KeyA  KeyCard
	KeyB  KeyCard

	// Reveal records, one per clue-giver perspective. A slot is written
	// at most once per game per perspective.
	RevealedForA [GridSize]Reveal
	RevealedForB [GridSize]Reveal

	// Seats. PlayerA's perspective is KeyA/RevealedForA.
	PlayerA string
	PlayerB string

	Drawer  string
	Guesser string

	Phase Phase

	// Committed strokes are visible to everyone; Pending is the drawer's
	// in-progress buffer, discarded or committed on SubmitDrawing.
	Committed []Stroke
	Pending   []Stroke

	TurnNumber     int
	CorrectGuesses int

	GameOver  bool
	Won       bool
	EndReason string
}

func NewState(words [GridSize]string, keyA, keyB KeyCard) State {
	return State{
		Words:      words,
		KeyA:       keyA,
		KeyB:       keyB,
		Phase:      PhaseDrawing,
		TurnNumber: 1,
	}
}

// RoleOf resolves a client's current role from the role pointers, not
// the seats: a seated player whose turn pointers were cleared by a
// disconnect race is a spectator until reassigned.
func RoleOf(s State, clientID string) Role {
	switch clientID {
	case "":
		return RoleSpectator
	case s.Drawer:
		return RoleDrawer
	case s.Guesser:
		return RoleGuesser
	}
	return RoleSpectator
}
