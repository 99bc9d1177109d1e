package interaction

import (
	"sync"
)

// Likes records right swipes keyed by recipient. It is sharded by recipient
// id with one mutex per shard, so concurrent actors only contend when they
// like recipients that hash to the same shard.
type Likes struct {
	shards []likeShard
}

type likeShard struct {
	mu       sync.Mutex
	received map[int64]map[int64]struct{} // recipient -> senders
}

func NewLikes(shards int) *Likes {
	if shards < 1 {
		shards = 1
	}
	l := &Likes{shards: make([]likeShard, shards)}
	for i := range l.shards {
		l.shards[i].received = make(map[int64]map[int64]struct{})
	}
	return l
}

func (l *Likes) shard(recipient int64) *likeShard {
	return &l.shards[uint64(recipient)%uint64(len(l.shards))]
}

// Record notes that sender liked recipient. Safe for concurrent use.
func (l *Likes) Record(sender, recipient int64) {
	s := l.shard(recipient)
	s.mu.Lock()
	senders, ok := s.received[recipient]
	if !ok {
		senders = make(map[int64]struct{})
		s.received[recipient] = senders
	}
	senders[sender] = struct{}{}
	s.mu.Unlock()
}

// Liked reports whether sender liked recipient.
func (l *Likes) Liked(sender, recipient int64) bool {
	s := l.shard(recipient)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.received[recipient][sender]
	return ok
}

// Len is the number of distinct (sender, recipient) likes recorded.
func (l *Likes) Len() int {
	n := 0
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		for _, senders := range s.received {
			n += len(senders)
		}
		s.mu.Unlock()
	}
	return n
}

// Mutual returns every mutually liked pair once, as (lower, higher).
// It locks all shards in index order for the duration of the scan.
func (l *Likes) Mutual() [][2]int64 {
	for i := range l.shards {
		l.shards[i].mu.Lock()
	}
	defer func() {
		for i := range l.shards {
			l.shards[i].mu.Unlock()
		}
	}()

	var pairs [][2]int64
	for i := range l.shards {
		for recipient, senders := range l.shards[i].received {
			for sender := range senders {
				// each pair is seen from both sides; keep the sender < recipient one
				if sender >= recipient {
					continue
				}
				if _, ok := l.shard(sender).received[sender][recipient]; ok {
					pairs = append(pairs, [2]int64{sender, recipient})
				}
			}
		}
	}
	return pairs
}
