package run_lottery

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
	"sync"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// lockedShuffler потокобезопасная обертка над *rand.Rand
type lockedShuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler создает источник перестановок ChaCha8 с зерном из crypto/rand
func NewShuffler() domain.Shuffler {
	var seed [32]byte
	_, _ = cryptorand.Read(seed[:])
	return &lockedShuffler{rnd: rand.New(rand.NewChaCha8(seed))}
}

// NewSeededShuffler создает детерминированный источник перестановок
func NewSeededShuffler(seed1, seed2 uint64) domain.Shuffler {
	return &lockedShuffler{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// Shuffle перемешивает n элементов (Fisher-Yates)
func (s *lockedShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(n, swap)
}
