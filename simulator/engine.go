package simulator

// Step advances a simulation by exactly one tick and returns the new snapshot.
//
// The snapshot at time T names the process that runs during [T+1, T+2) after
// the step. Phases run in a fixed order: execute the previous tick, admit
// arrivals, preempt, select, accrue waiting, stamp first dispatch, extend the
// timeline. Arrivals are admitted before a preempted process is requeued, so a
// process arriving on the same tick sits ahead of it in the queue.
//
// prev is not modified. Stepping a finished state returns ErrAlreadyFinished.
func Step(prev *State, policy Policy, opts Options) (*State, error) {
	if prev.Status == StatusFinished {
		return nil, ErrAlreadyFinished
	}
	if err := opts.Validate(policy); err != nil {
		return nil, err
	}

	s := prev.clone()
	next := s.Time + 1

	// Phase 1: the process dispatched last tick has now run for one unit
	running := s.Running
	if running != NoProcess {
		p := &s.Processes[running]
		p.RemainingTime--
		s.rrSlice++
		if p.RemainingTime <= 0 {
			p.RemainingTime = 0
			p.FinishTime = intPtr(next)
			running = NoProcess
		}
	}

	// Phase 2: arrivals become visible on the tick boundary they name
	for i := range s.Processes {
		if s.Processes[i].ArrivalTime == next {
			s.ReadyQueue.Push(i)
		}
	}

	// Phase 3: preemption of a process that still has work left
	if running != NoProcess {
		switch {
		case policy.RequiresQuantum():
			if s.rrSlice >= opts.Quantum {
				s.ReadyQueue.Push(running)
				running = NoProcess
			}
		case policy.Preemptive():
			s.ReadyQueue.Push(running)
			running = NoProcess
		}
	}

	// Phase 4: dispatch only when the CPU is free
	if running == NoProcess {
		s.rrSlice = 0
		if !s.ReadyQueue.IsEmpty() {
			s.ReadyQueue.sortStable(policy.compare(s.Processes))
			running = s.ReadyQueue.Pop()
		}
	}

	// Phase 5: everything still queued waited through this tick
	for _, idx := range s.ReadyQueue {
		s.Processes[idx].WaitingTime++
	}

	if running != NoProcess {
		p := &s.Processes[running]

		// Phase 6: first dispatch
		if !p.HasStarted {
			p.StartTime = intPtr(next)
			p.ResponseTime = next - p.ArrivalTime
			p.HasStarted = true
		}

		// Phase 7: merge contiguous occupancy into one timeline entry
		if n := len(s.Timeline); n > 0 && s.Timeline[n-1].ProcessID == p.ID && s.Timeline[n-1].End == next {
			s.Timeline[n-1].End = next + 1
		} else {
			s.Timeline = append(s.Timeline, TimelineEntry{
				ProcessID:   p.ID,
				ProcessName: p.Name,
				Start:       next,
				End:         next + 1,
				Color:       p.Color,
			})
		}
	}

	for i := range s.Processes {
		if p := &s.Processes[i]; p.FinishTime != nil {
			p.TurnaroundTime = *p.FinishTime - p.ArrivalTime
		}
	}

	s.Time = next
	s.Running = running
	return s, nil
}
