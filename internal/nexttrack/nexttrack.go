// Package nexttrack implements the next/previous-track policy (§4.8): a
// function of the play queue, the current track, and the active play
// mode (shuffle, sorted, tree, repeat, aaa mode). Its only side effect is
// that Resolve pops the queue head when the queue is not empty. It is
// deliberately decoupled from internal/library and internal/queue — callers
// translate their view state into the small Item/Params types here so the
// policy itself stays small and easily tested.
package nexttrack

import "github.com/waveterm/core/internal/trackinfo"

// AAAMode restricts which candidates satisfy a shuffle/sorted/tree walk
// relative to the current track: all tracks, same artist, or same album.
type AAAMode int

const (
	AAAAll AAAMode = iota
	AAAArtist
	AAAAlbum
)

// Item is one candidate the policy can advance to.
type Item struct {
	Info      *trackinfo.TrackInfo
	ArtistKey string
	AlbumKey  string
}

// QueuePopper abstracts the play queue's head-removal operation.
type QueuePopper interface {
	Pop() (*trackinfo.TrackInfo, bool)
}

// Params is every input the policy needs to resolve the next track. The
// Tree/Sorted/Shuffle order slices are the caller's current visible,
// ordered view contents; Reshuffle is invoked only when the shuffle order
// is exhausted under repeat (§4.8 step 4).
//
// This implementation has no separate "playlist" container distinct from
// the sorted list (the distilled spec.md's data model never names one
// either — see DESIGN.md); PlayLibrary=false therefore falls through to
// the sorted order, matching "the playlist view's next-track rule runs
// (same shape as below, over the playlist's list)".
type Params struct {
	Queue         QueuePopper
	RepeatCurrent bool
	PlayLibrary   bool
	PlaySorted    bool
	Shuffle       bool
	Repeat        bool
	AutoReshuffle bool
	AAAMode       AAAMode

	Current *Item

	TreeOrder    []Item
	SortedOrder  []Item
	ShuffleOrder []Item
	Reshuffle    func() []Item
}

// Reason names which step of the policy produced the result, for the
// track_advance_total{reason} metric (§10.5).
type Reason string

const (
	ReasonQueue   Reason = "queue"
	ReasonRepeat  Reason = "repeat"
	ReasonShuffle Reason = "shuffle"
	ReasonSorted  Reason = "sorted"
	ReasonTree    Reason = "tree"
	ReasonNone    Reason = "none"
)

// Result is the policy's resolved next track, or nil Item with
// ReasonNone if nothing qualifies.
type Result struct {
	Item   *Item
	Reason Reason
}

// Resolve runs the §4.8 automatic-advance algorithm.
func Resolve(p Params) Result {
	if p.Queue != nil {
		if ti, ok := p.Queue.Pop(); ok {
			return Result{Item: &Item{Info: ti}, Reason: ReasonQueue}
		}
	}

	if p.RepeatCurrent && p.Current != nil {
		return Result{Item: p.Current, Reason: ReasonRepeat}
	}

	if !p.PlayLibrary {
		return walk(p.SortedOrder, p.Current, p.Repeat, p.AAAMode, ReasonSorted, nil)
	}

	if p.Shuffle {
		wrap := p.Repeat && p.AutoReshuffle
		return walk(p.ShuffleOrder, p.Current, wrap, p.AAAMode, ReasonShuffle, p.Reshuffle)
	}

	if p.PlaySorted {
		return walk(p.SortedOrder, p.Current, p.Repeat, p.AAAMode, ReasonSorted, nil)
	}

	return walk(p.TreeOrder, p.Current, p.Repeat, p.AAAMode, ReasonTree, nil)
}

// Previous mirrors Resolve by walking the same orders in reverse, ignoring
// the queue and repeat-current shortcuts (those only apply to automatic
// forward advance).
func Previous(p Params) Result {
	if !p.PlayLibrary {
		return walkReverse(p.SortedOrder, p.Current, p.Repeat, p.AAAMode, ReasonSorted)
	}
	if p.Shuffle {
		return walkReverse(p.ShuffleOrder, p.Current, p.Repeat, p.AAAMode, ReasonShuffle)
	}
	if p.PlaySorted {
		return walkReverse(p.SortedOrder, p.Current, p.Repeat, p.AAAMode, ReasonSorted)
	}
	return walkReverse(p.TreeOrder, p.Current, p.Repeat, p.AAAMode, ReasonTree)
}

func walk(order []Item, current *Item, wrap bool, mode AAAMode, reason Reason, onWrap func() []Item) Result {
	n := len(order)
	if n == 0 {
		return Result{Reason: ReasonNone}
	}

	start := 0
	if current != nil {
		if idx := indexOf(order, current); idx >= 0 {
			start = idx + 1
		}
	}

	for i := 0; i < n; i++ {
		idx := start + i
		if idx >= n {
			if !wrap {
				break
			}
			if i == n-start && onWrap != nil {
				reshuffled := onWrap()
				return walk(reshuffled, nil, false, mode, reason, nil)
			}
			idx = idx % n
		}
		cand := order[idx]
		if aaaMatches(mode, current, &cand) {
			item := cand
			return Result{Item: &item, Reason: reason}
		}
	}
	return Result{Reason: ReasonNone}
}

func walkReverse(order []Item, current *Item, wrap bool, mode AAAMode, reason Reason) Result {
	n := len(order)
	if n == 0 {
		return Result{Reason: ReasonNone}
	}

	start := n - 1
	if current != nil {
		if idx := indexOf(order, current); idx >= 0 {
			start = idx - 1
		}
	}

	for i := 0; i < n; i++ {
		idx := start - i
		if idx < 0 {
			if !wrap {
				break
			}
			idx = ((idx % n) + n) % n
		}
		cand := order[idx]
		if aaaMatches(mode, current, &cand) {
			item := cand
			return Result{Item: &item, Reason: reason}
		}
	}
	return Result{Reason: ReasonNone}
}

func indexOf(order []Item, current *Item) int {
	for i := range order {
		if order[i].Info == current.Info {
			return i
		}
	}
	return -1
}

func aaaMatches(mode AAAMode, current, cand *Item) bool {
	if current == nil {
		return true
	}
	switch mode {
	case AAAArtist:
		return cand.ArtistKey == current.ArtistKey
	case AAAAlbum:
		return cand.AlbumKey == current.AlbumKey
	default:
		return true
	}
}
