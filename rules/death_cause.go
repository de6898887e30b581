package rules

const (
	// DeathCauseWallCollision is when the snake runs off the board
	DeathCauseWallCollision = "wall-collision"
	// DeathCauseSnakeSelfCollision is when the head of the snake lands on its own body
	DeathCauseSnakeSelfCollision = "snake-self-collision"
)
