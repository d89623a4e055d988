package sandbox

import (
	"github.com/milk9111/grabbox/pointer"
	"go.uber.org/zap"
)

// FixedUpdate places every held body at its pointer's target and steps the
// world once.
func (s *Sandbox) FixedUpdate() {
	s.machine.Each(func(key pointer.Key, st *pointer.State) {
		if !st.Holding() {
			return
		}
		if err := s.world.SetTranslation(st.Held, st.Target()); err != nil {
			s.logger.Debug("sandbox: held body missing",
				zap.Uint32("player", uint32(key.Player)),
				zap.Uint32("pointer", uint32(key.Pointer)),
				zap.Error(err))
		}
	})
	s.world.Step()
	s.ticks++
}
