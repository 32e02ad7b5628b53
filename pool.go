package ckpt

// Pool is a pool whose count is not known until its entries are written.
// It captures the writer context, reserves the count slot and counts entries;
// exactly one of Commit, CommitOrRollback or Rollback finalizes it.
type Pool struct {
	w     *Writer
	ctx   Context
	pos   Position
	count uint32
	done  bool
}

func BeginPool(w *Writer) Pool {
	ctx := w.Context()
	return Pool{
		w:   w,
		ctx: ctx,
		pos: w.Reserve(4),
	}
}

// Add records one entry written by the caller.
func (p *Pool) Add() {
	p.count++
}

func (p *Pool) Count() uint32 {
	return p.count
}

func (p *Pool) Done() bool {
	return p.done
}

// Commit patches the count, even if it is zero.
func (p *Pool) Commit() {
	p.finalize("Commit")
	p.w.WriteCountAt(p.count, p.pos)
}

// CommitOrRollback patches the count, or rolls the whole pool back if no
// entries were added. Returns whether the pool is present.
func (p *Pool) CommitOrRollback() bool {
	if p.count == 0 {
		p.Rollback()
		return false
	}
	p.Commit()
	return true
}

// Rollback discards the count slot and all entries.
func (p *Pool) Rollback() {
	p.finalize("Rollback")
	p.w.SetContext(p.ctx)
}

func (p *Pool) finalize(op string) {
	if p.done {
		fatalf(op, "pool already finalized")
	}
	p.done = true
}
