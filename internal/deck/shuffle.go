package deck

import "cardstack/internal/models"

// shuffle permutes tasks in place with Fisher-Yates. Every permutation is
// equally likely provided intn is uniform.
func shuffle(tasks []models.Task, intn func(n int) int) {
	for i := len(tasks) - 1; i > 0; i-- {
		j := intn(i + 1)
		tasks[i], tasks[j] = tasks[j], tasks[i]
	}
}
