package evaluator

import (
	"sort"

	"holdem-server/pkg/deck"
)

// Evaluation is the best five-card hand a player can make
type Evaluation struct {
	Tier     Tier      `json:"tier"`
	BestFive deck.Hand `json:"bestFive"`
	Kickers  []int     `json:"kickers"`
}

// Evaluate returns the best five-card hand from the player's hole cards and
// the community cards. With fewer than five total cards, it degrades to a
// high-card-only evaluation of whatever cards exist.
func Evaluate(holeCards, communityCards []*deck.Card) *Evaluation {
	cards := make(deck.Hand, 0, len(holeCards)+len(communityCards))
	cards = append(cards, holeCards...)
	cards = append(cards, communityCards...)

	if len(cards) < 5 {
		return evaluateHighCardOnly(cards)
	}

	var best *Evaluation
	forEachFiveCardSubset(cards, func(five deck.Hand) {
		ev := scoreFive(five)
		if best == nil || Compare(ev, best) > 0 {
			best = ev
		}
	})

	return best
}

// Compare returns > 0 if a beats b, < 0 if b beats a, and 0 on a tie
func Compare(a, b *Evaluation) int {
	if a.Tier != b.Tier {
		return int(a.Tier) - int(b.Tier)
	}

	return CompareKickers(a.Kickers, b.Kickers)
}

// CompareKickers provides a total order for equal-tier hands.
// Kickers are compared high-to-low in grouped-rank order.
func CompareKickers(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}

	return len(a) - len(b)
}

// forEachFiveCardSubset visits every 5-card subset of the cards
func forEachFiveCardSubset(cards deck.Hand, fn func(deck.Hand)) {
	n := len(cards)
	var choose [5]int
	five := make(deck.Hand, 5)

	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[choose[i]]
			}

			fn(five)
			return
		}

		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}

	rec(0, 0)
}

func evaluateHighCardOnly(cards deck.Hand) *Evaluation {
	sorted := sortedByRankDesc(cards)

	kickers := make([]int, len(sorted))
	for i, card := range sorted {
		kickers[i] = card.Rank
	}

	return &Evaluation{
		Tier:     HighCard,
		BestFive: sorted,
		Kickers:  kickers,
	}
}

// scoreFive evaluates exactly five cards
func scoreFive(five deck.Hand) *Evaluation {
	sorted := sortedByRankDesc(five)

	isFlush := true
	for _, card := range sorted[1:] {
		if card.Suit != sorted[0].Suit {
			isFlush = false
			break
		}
	}

	straightHigh := straightHighCard(sorted)

	if isFlush && straightHigh > 0 {
		ev := &Evaluation{
			Tier:     StraightFlush,
			BestFive: straightOrder(sorted, straightHigh),
			Kickers:  []int{straightHigh},
		}

		if straightHigh == deck.Ace {
			ev.Tier = RoyalFlush
			ev.Kickers = nil
		}

		return ev
	}

	quads, trips, pairs := groupByRank(sorted)

	switch {
	case len(quads) == 1:
		return &Evaluation{
			Tier:     FourOfAKind,
			BestFive: groupedOrder(sorted, quads[0]),
			Kickers:  []int{quads[0], ungroupedRanks(sorted, quads[0])[0]},
		}
	case len(trips) == 1 && len(pairs) == 1:
		return &Evaluation{
			Tier:     FullHouse,
			BestFive: groupedOrder(sorted, trips[0], pairs[0]),
			Kickers:  []int{trips[0], pairs[0]},
		}
	case isFlush:
		return &Evaluation{
			Tier:     Flush,
			BestFive: sorted,
			Kickers:  allRanks(sorted),
		}
	case straightHigh > 0:
		return &Evaluation{
			Tier:     Straight,
			BestFive: straightOrder(sorted, straightHigh),
			Kickers:  []int{straightHigh},
		}
	case len(trips) == 1:
		return &Evaluation{
			Tier:     ThreeOfAKind,
			BestFive: groupedOrder(sorted, trips[0]),
			Kickers:  append([]int{trips[0]}, ungroupedRanks(sorted, trips[0])...),
		}
	case len(pairs) == 2:
		return &Evaluation{
			Tier:     TwoPair,
			BestFive: groupedOrder(sorted, pairs[0], pairs[1]),
			Kickers:  []int{pairs[0], pairs[1], ungroupedRanks(sorted, pairs[0], pairs[1])[0]},
		}
	case len(pairs) == 1:
		return &Evaluation{
			Tier:     OnePair,
			BestFive: groupedOrder(sorted, pairs[0]),
			Kickers:  append([]int{pairs[0]}, ungroupedRanks(sorted, pairs[0])...),
		}
	}

	return &Evaluation{
		Tier:     HighCard,
		BestFive: sorted,
		Kickers:  allRanks(sorted),
	}
}

func sortedByRankDesc(cards deck.Hand) deck.Hand {
	sorted := cards.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	return sorted
}

// straightHighCard returns the high card of a straight, or 0 if the five
// sorted cards do not form one. The wheel (A-2-3-4-5) returns 5.
func straightHighCard(sorted deck.Hand) int {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank != sorted[i-1].Rank-1 {
			// allow the wheel: A,5,4,3,2
			if i == 1 && sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 {
				continue
			}

			return 0
		}
	}

	if sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 {
		return 5
	}

	return sorted[0].Rank
}

// straightOrder returns the straight high-to-low; in the wheel the ace moves last
func straightOrder(sorted deck.Hand, high int) deck.Hand {
	if high == 5 && sorted[0].Rank == deck.Ace {
		wheel := sorted[1:].Clone()
		wheel.AddCard(sorted[0])
		return wheel
	}

	return sorted
}

// groupByRank finds quads, trips, and pairs in descending rank order
func groupByRank(sorted deck.Hand) (quads, trips, pairs []int) {
	counts := make(map[int]int)
	for _, card := range sorted {
		counts[card.Rank]++
	}

	for _, card := range sorted {
		switch counts[card.Rank] {
		case 4:
			quads = appendUnique(quads, card.Rank)
		case 3:
			trips = appendUnique(trips, card.Rank)
		case 2:
			pairs = appendUnique(pairs, card.Rank)
		}
	}

	return
}

func appendUnique(ranks []int, rank int) []int {
	for _, r := range ranks {
		if r == rank {
			return ranks
		}
	}

	return append(ranks, rank)
}

// groupedOrder places cards of the grouped ranks first, then the remaining kickers
func groupedOrder(sorted deck.Hand, groupRanks ...int) deck.Hand {
	ordered := make(deck.Hand, 0, len(sorted))
	for _, rank := range groupRanks {
		for _, card := range sorted {
			if card.Rank == rank {
				ordered.AddCard(card)
			}
		}
	}

	for _, card := range sorted {
		grouped := false
		for _, rank := range groupRanks {
			if card.Rank == rank {
				grouped = true
				break
			}
		}

		if !grouped {
			ordered.AddCard(card)
		}
	}

	return ordered
}

// ungroupedRanks returns the ranks not part of any group, high-to-low
func ungroupedRanks(sorted deck.Hand, groupRanks ...int) []int {
	ranks := make([]int, 0, len(sorted))

Outer:
	for _, card := range sorted {
		for _, rank := range groupRanks {
			if card.Rank == rank {
				continue Outer
			}
		}

		ranks = append(ranks, card.Rank)
	}

	return ranks
}

func allRanks(sorted deck.Hand) []int {
	ranks := make([]int, len(sorted))
	for i, card := range sorted {
		ranks[i] = card.Rank
	}

	return ranks
}
