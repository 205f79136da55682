package event

type subscription struct {
	src  Source
	name Name
	tok  Token
}

// Subscriptions records registrations so they can be detached together.
// Modes take one in Activate and release it in Deactivate.
type Subscriptions struct {
	subs []subscription
}

// On registers fn on src and records the registration.
func (s *Subscriptions) On(src Source, name Name, fn Listener) Token {
	tok := src.On(name, fn)
	if tok != 0 {
		s.subs = append(s.subs, subscription{src: src, name: name, tok: tok})
	}
	return tok
}

// Subscribe is the typed form of Subscriptions.On.
func Subscribe[T Event](s *Subscriptions, src Source, fn func(T)) Token {
	tok := Listen(src, fn)
	if tok != 0 {
		var zero T
		s.subs = append(s.subs, subscription{src: src, name: zero.Name(), tok: tok})
	}
	return tok
}

// Drop detaches every recorded registration on src only.
func (s *Subscriptions) Drop(src Source) {
	kept := s.subs[:0]
	for _, sub := range s.subs {
		if sub.src == src {
			sub.src.Off(sub.name, sub.tok)
			continue
		}
		kept = append(kept, sub)
	}
	s.subs = kept
}

// Release detaches everything recorded. Calling it again is a no-op.
func (s *Subscriptions) Release() {
	for i := len(s.subs) - 1; i >= 0; i-- {
		sub := s.subs[i]
		sub.src.Off(sub.name, sub.tok)
	}
	s.subs = nil
}

// Len returns the number of live recorded registrations.
func (s *Subscriptions) Len() int {
	return len(s.subs)
}
