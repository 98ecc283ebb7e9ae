package server

// Outbound frame payloads. Every websocket frame is a JSON envelope of
// {"type": ..., "payload": ...}.

type nodeDTO struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	VoiceLine string `json:"voice_line,omitempty"`
	BlipSound string `json:"blip_sound,omitempty"`
}

type choiceDTO struct {
	Index int    `json:"index"` // index into the valid set; echo back in "choose"
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

type choicesDTO struct {
	Choices []choiceDTO `json:"choices"`
}

type startedDTO struct {
	SessionID  string `json:"session_id"`
	DialogueID string `json:"dialogue_id"`
}

type endedDTO struct {
	DialogueID string `json:"dialogue_id"`
	Natural    bool   `json:"natural"`
}

// availabilityDTO lists one dialogue's current replay eligibility.
type availabilityDTO struct {
	DialogueID string  `json:"dialogue_id"`
	CanStart   bool    `json:"can_start"`
	CooldownS  float64 `json:"cooldown_s,omitempty"` // remaining, not configured
	PlayCount  int     `json:"play_count"`
}

type dialogueListDTO struct {
	Dialogues []availabilityDTO `json:"dialogues"`
}

type errorDTO struct {
	Message string `json:"message"`
}

// Inbound payloads.

type startCmd struct {
	DialogueID string `json:"dialogue_id"`
}

type chooseCmd struct {
	Index int `json:"index"`
}
