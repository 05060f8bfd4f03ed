package holdem

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/evaluator"
	"holdem-server/pkg/poker/potmanager"
)

// Table is a single Texas Hold'em table. All exported methods are safe for
// concurrent use; a single mutex linearizes every mutation.
type Table struct {
	mu sync.Mutex

	logger      logrus.FieldLogger
	options     Options
	broadcaster Broadcaster
	rand        rng.Generator

	state   State
	players []*Player // sorted by seat index

	// eliminated holds busted players in the order they busted out
	eliminated []*Player

	handID          string
	deck            *deck.Deck
	community       deck.Hand
	pots            *potmanager.Manager
	round           *bettingRound
	dealerSeat      int
	smallBlindID    string
	lastAggressorID string

	// turnIndex is the players index of the actor on the clock, or -1
	turnIndex int

	// actionSeq invalidates stale timers; bumped whenever an action is accepted
	actionSeq int64

	countdownTimer *time.Timer
	actionTimer    *time.Timer
	advanceTimer   *time.Timer

	// newDeck builds a hand's deck; replaced in tests to stack the deal
	newDeck func() *deck.Deck
}

// New returns a table in the waiting-for-players state
func New(logger logrus.FieldLogger, broadcaster Broadcaster, opts Options) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	t := &Table{
		logger:      logger,
		options:     opts,
		broadcaster: broadcaster,
		rand:        rng.Crypto{},
		state:       StateWaitingForPlayers,
		players:     make([]*Player, 0, opts.MaxPlayers),
		pots:        potmanager.New(),
		dealerSeat:  -1,
		turnIndex:   -1,
	}

	t.newDeck = func() *deck.Deck {
		seed := opts.DeckSeed
		if seed == 0 {
			seed = 1 + int64(t.rand.Intn(math.MaxInt32))
		}

		d := deck.New()
		d.Shuffle(seed)
		return d
	}

	return t, nil
}

// State returns the table's current state
func (t *Table) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Stop cancels all outstanding timers. The table is not usable afterwards.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTimersLocked()
}

// AddPlayer seats a new player with the configured starting stack. The name
// gets a numeric suffix if it collides with a seated player's.
func (t *Table) AddPlayer(name string) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateWaitingForPlayers && t.state != StateCountdown {
		return nil, errors.New("cannot join while a game is in progress")
	}

	if len(t.players) >= t.options.MaxPlayers {
		return nil, errors.New("the table is full")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("a name is required")
	}

	p := newPlayer(t.uniqueNameLocked(name), t.lowestFreeSeatLocked(), t.options.StartingChips)
	t.players = append(t.players, p)
	sort.Slice(t.players, func(i, j int) bool {
		return t.players[i].SeatIndex < t.players[j].SeatIndex
	})

	t.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"seat":   p.SeatIndex,
	}).Info("player joined")

	t.broadcaster.Broadcast(newNotification(NotificationPlayerJoined, &PlayerJoinedData{
		PlayerID:  p.PlayerID,
		Name:      p.Name,
		SeatIndex: p.SeatIndex,
		Chips:     p.chips,
	}))

	if t.state == StateWaitingForPlayers && len(t.players) >= t.options.MinPlayers {
		t.startCountdownLocked()
	}

	return p, nil
}

// RemovePlayer takes a player off the table. Between hands the seat is
// freed immediately; during a hand the player is folded and the removal is
// deferred to the hand boundary so pot accounting stays intact.
func (t *Table) RemovePlayer(id, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByIDLocked(id)
	if p == nil {
		return errors.New("player not found")
	}

	p.isConnected = false

	if !t.state.inHand() {
		t.removeSeatLocked(p, reason)

		if t.state == StateCountdown && len(t.players) < t.options.MinPlayers {
			t.stopCountdownLocked()
		}

		return nil
	}

	p.pendingRemoval = true
	t.broadcaster.Broadcast(newNotification(NotificationPlayerLeft, &PlayerLeftData{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		Reason:   reason,
	}))

	if p.hasFolded || !t.state.IsStreet() {
		return nil
	}

	if t.turnIndex >= 0 && t.players[t.turnIndex] == p {
		return t.applyActionLocked(p, action.Fold, 0)
	}

	// an out-of-turn fold can finish the street or the hand
	p.hasFolded = true
	t.logger.WithField("player", p.Name).Info("player folded out of turn")

	if unfolded := t.unfoldedPlayersLocked(); len(unfolded) == 1 {
		t.resolveSingleWinnerLocked(unfolded[0])
	} else if t.streetCompleteLocked() {
		t.endStreetLocked()
	}

	return nil
}

// StartNewHand deals the next hand. Busted and departed players are removed
// first; with too few players left the game ends.
func (t *Table) StartNewHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.inHand() {
		return errors.New("a hand is already in progress")
	}

	if t.state == StateGameOver {
		return errors.New("the game is over")
	}

	t.startNewHandLocked()
	return nil
}

// HandlePlayerAction validates and applies a betting decision from a player.
// Validation failures leave the table unchanged and are returned to the
// caller for unicast delivery to the acting player.
func (t *Table) HandlePlayerAction(id string, act action.Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsStreet() {
		return errors.New("no betting round is active")
	}

	p := t.playerByIDLocked(id)
	if p == nil {
		return errors.New("player not found")
	}

	if t.turnIndex < 0 || t.players[t.turnIndex] != p {
		return errors.New("it is not your turn")
	}

	return t.applyActionLocked(p, act, amount)
}

// ShowCards reveals the player's hole cards to the table after showdown
func (t *Table) ShowCards(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.showdownPlayerLocked(id)
	if err != nil {
		return err
	}

	if p.reveal {
		return nil
	}

	p.reveal = true
	t.broadcastRevealLocked(p)
	return nil
}

// MuckCards declines to reveal. Settlement never depends on this choice;
// mucking only keeps a losing hand private.
func (t *Table) MuckCards(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.showdownPlayerLocked(id)
	if err != nil {
		return err
	}

	if p.reveal {
		return errors.New("cards have already been shown")
	}

	return nil
}

// SendStateTo unicasts a full table snapshot to one player
func (t *Table) SendStateTo(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]*playerState, len(t.players))
	for i, p := range t.players {
		players[i] = p.state(p.PlayerID == id || p.reveal)
	}

	var currentTurn string
	if t.turnIndex >= 0 {
		currentTurn = t.players[t.turnIndex].PlayerID
	}

	data := &StateData{
		State:          t.state,
		CommunityCards: t.community,
		Pots:           t.pots.Pots(),
		Players:        players,
		CurrentTurn:    currentTurn,
	}

	if t.round != nil {
		data.CurrentBet = t.round.currentBet
		data.MinRaise = t.round.minRaise
	}

	t.broadcaster.Unicast(id, newNotification(NotificationState, data))
}

// --- hand lifecycle ---

func (t *Table) startCountdownLocked() {
	t.state = StateCountdown
	seconds := int(t.options.Countdown.Seconds())

	t.logger.WithField("seconds", seconds).Info("countdown started")
	t.broadcaster.Broadcast(newNotification(NotificationCountdownStarted, &CountdownStartedData{
		Seconds: seconds,
	}))

	t.countdownTimer = time.AfterFunc(t.options.Countdown, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.state == StateCountdown {
			t.startNewHandLocked()
		}
	})
}

func (t *Table) stopCountdownLocked() {
	if t.countdownTimer != nil {
		t.countdownTimer.Stop()
		t.countdownTimer = nil
	}

	t.state = StateWaitingForPlayers
	t.logger.Info("countdown stopped")
	t.broadcaster.Broadcast(newNotification(NotificationCountdownStopped, nil))
}

func (t *Table) startNewHandLocked() {
	t.purgePlayersLocked()

	if len(t.players) < t.options.MinPlayers {
		if t.dealerSeat >= 0 {
			t.gameOverLocked()
		} else {
			t.state = StateWaitingForPlayers
		}

		return
	}

	t.handID = uuid.NewString()
	t.community = make(deck.Hand, 0, 5)
	t.pots = potmanager.New()
	t.round = newBettingRound(t.options.BigBlind)
	t.lastAggressorID = ""
	for _, p := range t.players {
		p.newHandReset()
	}

	n := len(t.players)

	var dealerIdx int
	if t.dealerSeat < 0 {
		dealerIdx = t.rand.Intn(n)
	} else {
		dealerIdx = t.indexAfterSeatLocked(t.dealerSeat)
	}
	t.dealerSeat = t.players[dealerIdx].SeatIndex

	// heads-up the dealer posts the small blind and acts first pre-flop
	sbIdx := (dealerIdx + 1) % n
	bbIdx := (dealerIdx + 2) % n
	firstIdx := (bbIdx + 1) % n
	if n == 2 {
		sbIdx = dealerIdx
		bbIdx = (dealerIdx + 1) % n
		firstIdx = sbIdx
	}

	sb := t.players[sbIdx]
	bb := t.players[bbIdx]
	t.smallBlindID = sb.PlayerID

	t.deck = t.newDeck()
	t.state = StatePreFlop

	// two cards each, one at a time, starting from the small blind
	for i := 0; i < 2; i++ {
		for j := 0; j < n; j++ {
			p := t.players[(sbIdx+j)%n]
			p.holeCards.AddCard(t.mustDrawLocked())
		}
	}

	// a short stack posts a partial blind and is all-in immediately
	sb.wagerTo(minInt(t.options.SmallBlind, sb.maxWager()))
	bb.wagerTo(minInt(t.options.BigBlind, bb.maxWager()))
	t.round.currentBet = t.options.BigBlind

	t.logger.WithFields(logrus.Fields{
		"hand":    t.handID,
		"dealer":  t.players[dealerIdx].Name,
		"players": n,
	}).Info("hand started")

	t.broadcaster.Broadcast(newNotification(NotificationBlindsPosted, &BlindsPostedData{
		HandID:     t.handID,
		DealerID:   t.players[dealerIdx].PlayerID,
		SmallBlind: BlindData{PlayerID: sb.PlayerID, Amount: sb.currentBet},
		BigBlind:   BlindData{PlayerID: bb.PlayerID, Amount: bb.currentBet},
	}))

	for _, p := range t.players {
		t.broadcaster.Unicast(p.PlayerID, newNotification(NotificationHoleCards, &HoleCardsData{
			Cards: p.holeCards,
		}))
	}

	t.broadcastPhaseLocked()

	if t.countCanActLocked() <= 1 {
		t.endStreetLocked()
		return
	}

	t.requestActionLocked(t.nextActorLocked(firstIdx))
}

func (t *Table) applyActionLocked(p *Player, act action.Action, amount int) error {
	prevBet := t.round.currentBet

	reopened, err := t.round.handleAction(p, act, amount)
	if err != nil {
		return err
	}

	t.actionSeq++
	if t.actionTimer != nil {
		t.actionTimer.Stop()
		t.actionTimer = nil
	}

	p.acted = true

	if t.round.currentBet > prevBet {
		t.lastAggressorID = p.PlayerID
	}

	if reopened {
		for _, o := range t.players {
			if o != p && o.canAct() {
				o.acted = false
			}
		}
	}

	t.logger.WithFields(logrus.Fields{
		"hand":   t.handID,
		"player": p.Name,
	}).Info(act.LogMessage(p.currentBet))

	t.broadcaster.Broadcast(newNotification(NotificationPlayerActed, &PlayerActedData{
		PlayerID: p.PlayerID,
		Action:   act,
		Amount:   p.currentBet,
		Chips:    p.chips,
		AllIn:    p.isAllIn,
	}))

	if unfolded := t.unfoldedPlayersLocked(); len(unfolded) == 1 {
		t.resolveSingleWinnerLocked(unfolded[0])
		return nil
	}

	if t.streetCompleteLocked() {
		t.endStreetLocked()
		return nil
	}

	next := t.nextActorLocked((t.turnIndex + 1) % len(t.players))
	if next < 0 {
		t.endStreetLocked()
		return nil
	}

	t.requestActionLocked(next)
	return nil
}

func (t *Table) requestActionLocked(idx int) {
	t.turnIndex = idx
	p := t.players[idx]

	t.actionSeq++
	seq := t.actionSeq

	callAmount := t.round.currentBet - p.currentBet
	if callAmount < 0 {
		callAmount = 0
	} else if callAmount > p.chips {
		callAmount = p.chips
	}

	t.broadcaster.Unicast(p.PlayerID, newNotification(NotificationActionRequest, &ActionRequestData{
		PlayerID:       p.PlayerID,
		Actions:        t.round.availableActions(p),
		TimeoutSeconds: int(t.options.ActionTimeout.Seconds()),
		CurrentBet:     t.round.currentBet,
		CallAmount:     callAmount,
		MinRaise:       t.round.minRaise,
		Chips:          p.chips,
	}))

	t.actionTimer = time.AfterFunc(t.options.ActionTimeout, func() {
		t.actionTimedOut(seq, p.PlayerID)
	})
}

// actionTimedOut auto-folds a player who let the clock run out. A stale
// sequence number means the player already acted and the fold is discarded.
func (t *Table) actionTimedOut(seq int64, playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.actionSeq || !t.state.IsStreet() {
		return
	}

	if t.turnIndex < 0 || t.players[t.turnIndex].PlayerID != playerID {
		return
	}

	p := t.players[t.turnIndex]
	t.logger.WithField("player", p.Name).Info("action timed out, folding")

	// a fold is always valid
	if err := t.applyActionLocked(p, action.Fold, 0); err != nil {
		panic(fmt.Sprintf("auto-fold failed: %v", err))
	}
}

func (t *Table) endStreetLocked() {
	t.turnIndex = -1
	t.pots.CollectBets(t.contributorsLocked())
	for _, p := range t.players {
		p.acted = false
	}

	if t.state == StateRiver {
		t.showdownLocked()
		return
	}

	t.advanceTimer = time.AfterFunc(t.options.InterStreetDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.state.IsStreet() {
			t.dealNextStreetLocked()
		}
	})
}

func (t *Table) dealNextStreetLocked() {
	switch t.state {
	case StatePreFlop:
		t.mustBurnLocked()
		for i := 0; i < 3; i++ {
			t.community.AddCard(t.mustDrawLocked())
		}
		t.state = StateFlop
	case StateFlop:
		t.mustBurnLocked()
		t.community.AddCard(t.mustDrawLocked())
		t.state = StateTurn
	case StateTurn:
		t.mustBurnLocked()
		t.community.AddCard(t.mustDrawLocked())
		t.state = StateRiver
	default:
		panic(fmt.Sprintf("cannot deal community cards in state %s", t.state))
	}

	t.round = newBettingRound(t.options.BigBlind)
	t.broadcastPhaseLocked()

	if t.countCanActLocked() <= 1 {
		t.endStreetLocked()
		return
	}

	dealerIdx := t.indexOfSeatLocked(t.dealerSeat)
	first := t.nextActorLocked((dealerIdx + 1) % len(t.players))
	if first < 0 {
		t.endStreetLocked()
		return
	}

	t.requestActionLocked(first)
}

func (t *Table) showdownLocked() {
	t.state = StateShowdown
	t.broadcastPhaseLocked()

	order := t.revealOrderLocked()

	evaluations := make(map[string]*evaluator.Evaluation, len(order))
	for _, p := range order {
		evaluations[p.PlayerID] = evaluator.Evaluate(p.holeCards, t.community)
	}

	rankedGroups := rankGroups(order, evaluations)

	results, err := t.pots.Distribute(rankedGroups, t.contributorsLocked(), t.smallBlindID)
	if err != nil {
		// the eligibility invariant makes this unreachable; corrupt
		// accounting must not be papered over
		panic(err)
	}

	winners := make(map[string]bool)
	for _, r := range results {
		for _, w := range r.Winners {
			winners[w.PlayerID] = true
		}
	}

	// the last aggressor shows first; winners are forced to show, losers
	// may choose during the settlement pause
	for i, p := range order {
		if i == 0 || winners[p.PlayerID] {
			p.reveal = true
			t.broadcastRevealLocked(p)
		} else {
			t.broadcaster.Unicast(p.PlayerID, newNotification(NotificationShowdownRequest, &ShowdownRequestData{
				TimeoutSeconds: int(t.options.EndOfHandDelay.Seconds()),
			}))
		}
	}

	t.state = StateSettlement
	t.broadcastPhaseLocked()
	t.broadcaster.Broadcast(newNotification(NotificationPotDistribution, &PotDistributionData{
		Pots: results,
	}))

	t.endHandLocked()
}

// resolveSingleWinnerLocked awards everything to the last unfolded player
// without a showdown
func (t *Table) resolveSingleWinnerLocked(winner *Player) {
	t.turnIndex = -1
	t.actionSeq++
	if t.actionTimer != nil {
		t.actionTimer.Stop()
		t.actionTimer = nil
	}

	t.pots.CollectBets(t.contributorsLocked())
	total := t.pots.DistributeToSingleWinner(winner)

	t.logger.WithFields(logrus.Fields{
		"hand":   t.handID,
		"player": winner.Name,
		"amount": total,
	}).Info("hand won uncontested")

	t.state = StateSettlement
	t.broadcastPhaseLocked()
	t.broadcaster.Broadcast(newNotification(NotificationPotDistribution, &PotDistributionData{
		Pots: []*potmanager.PotResult{{
			Name:    "Main pot",
			Amount:  total,
			Winners: []potmanager.Winner{{PlayerID: winner.PlayerID, Amount: total}},
		}},
	}))

	t.endHandLocked()
}

func (t *Table) endHandLocked() {
	players := make([]*playerState, len(t.players))
	for i, p := range t.players {
		players[i] = p.state(p.reveal)
	}

	t.broadcaster.Broadcast(newNotification(NotificationHandEnded, &HandEndedData{
		Players: players,
	}))

	t.advanceTimer = time.AfterFunc(t.options.EndOfHandDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.state == StateSettlement {
			t.startNewHandLocked()
		}
	})
}

func (t *Table) gameOverLocked() {
	t.state = StateGameOver
	t.stopTimersLocked()

	ranked := make([]*Player, len(t.players))
	copy(ranked, t.players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].chips > ranked[j].chips
	})

	// busted players place below every survivor; a later bust places higher
	for i := len(t.eliminated) - 1; i >= 0; i-- {
		ranked = append(ranked, t.eliminated[i])
	}

	rankings := make([]Ranking, len(ranked))
	for i, p := range ranked {
		rankings[i] = Ranking{
			Place:    i + 1,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Chips:    p.chips,
		}
	}

	t.logger.Info("game over")
	t.broadcaster.Broadcast(newNotification(NotificationGameOver, &GameOverData{
		Rankings: rankings,
	}))
}

// --- helpers ---

func (t *Table) playerByIDLocked(id string) *Player {
	for _, p := range t.players {
		if p.PlayerID == id {
			return p
		}
	}

	return nil
}

func (t *Table) uniqueNameLocked(name string) string {
	taken := func(n string) bool {
		for _, p := range t.players {
			if strings.EqualFold(p.Name, n) {
				return true
			}
		}

		return false
	}

	if !taken(name) {
		return name
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (t *Table) lowestFreeSeatLocked() int {
	for seat := 0; ; seat++ {
		free := true
		for _, p := range t.players {
			if p.SeatIndex == seat {
				free = false
				break
			}
		}

		if free {
			return seat
		}
	}
}

func (t *Table) removeSeatLocked(p *Player, reason string) {
	for i, seated := range t.players {
		if seated == p {
			t.players = append(t.players[:i], t.players[i+1:]...)
			break
		}
	}

	t.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"reason": reason,
	}).Info("player left")

	t.broadcaster.Broadcast(newNotification(NotificationPlayerLeft, &PlayerLeftData{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		Reason:   reason,
	}))
}

// purgePlayersLocked drops busted and departed players at the hand boundary
func (t *Table) purgePlayersLocked() {
	kept := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.chips <= 0 {
			t.eliminated = append(t.eliminated, p)
			t.removeSeatLocked(p, "eliminated")
		} else if p.pendingRemoval {
			t.removeSeatLocked(p, "left")
		} else {
			kept = append(kept, p)
		}
	}

	t.players = kept
}

// indexAfterSeatLocked finds the next seated player clockwise of a seat
func (t *Table) indexAfterSeatLocked(seat int) int {
	for i, p := range t.players {
		if p.SeatIndex > seat {
			return i
		}
	}

	return 0
}

func (t *Table) indexOfSeatLocked(seat int) int {
	for i, p := range t.players {
		if p.SeatIndex >= seat {
			return i
		}
	}

	return 0
}

// nextActorLocked scans clockwise from start for a player who still owes a
// decision this street. Returns -1 if nobody does.
func (t *Table) nextActorLocked(start int) int {
	n := len(t.players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := t.players[idx]
		if p.canAct() && (!p.acted || p.currentBet != t.round.currentBet) {
			return idx
		}
	}

	return -1
}

// streetCompleteLocked reports whether every player who can act has acted
// since the last full raise and matched the table bet
func (t *Table) streetCompleteLocked() bool {
	for _, p := range t.players {
		if p.canAct() && (!p.acted || p.currentBet != t.round.currentBet) {
			return false
		}
	}

	return true
}

func (t *Table) countCanActLocked() int {
	count := 0
	for _, p := range t.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

func (t *Table) unfoldedPlayersLocked() []*Player {
	unfolded := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if !p.hasFolded {
			unfolded = append(unfolded, p)
		}
	}

	return unfolded
}

func (t *Table) contributorsLocked() []potmanager.Contributor {
	contributors := make([]potmanager.Contributor, len(t.players))
	for i, p := range t.players {
		contributors[i] = p
	}

	return contributors
}

// revealOrderLocked returns the unfolded players clockwise from the last
// aggressor. Without any aggression the first player past the dealer
// shows first.
func (t *Table) revealOrderLocked() []*Player {
	n := len(t.players)
	start := (t.indexOfSeatLocked(t.dealerSeat) + 1) % n
	if t.lastAggressorID != "" {
		for i, p := range t.players {
			if p.PlayerID == t.lastAggressorID && !p.hasFolded {
				start = i
				break
			}
		}
	}

	order := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		p := t.players[(start+i)%n]
		if !p.hasFolded {
			order = append(order, p)
		}
	}

	return order
}

// rankGroups buckets players by hand strength, strongest first, ties together
func rankGroups(players []*Player, evaluations map[string]*evaluator.Evaluation) [][]string {
	sorted := make([]*Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return evaluator.Compare(evaluations[sorted[i].PlayerID], evaluations[sorted[j].PlayerID]) > 0
	})

	groups := make([][]string, 0, len(sorted))
	for _, p := range sorted {
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			if evaluator.Compare(evaluations[last[0]], evaluations[p.PlayerID]) == 0 {
				groups[len(groups)-1] = append(last, p.PlayerID)
				continue
			}
		}

		groups = append(groups, []string{p.PlayerID})
	}

	return groups
}

func (t *Table) showdownPlayerLocked(id string) (*Player, error) {
	if t.state != StateShowdown && t.state != StateSettlement {
		return nil, errors.New("cards can only be shown after the showdown")
	}

	p := t.playerByIDLocked(id)
	if p == nil {
		return nil, errors.New("player not found")
	}

	if p.hasFolded {
		return nil, errors.New("folded players cannot show")
	}

	return p, nil
}

func (t *Table) broadcastRevealLocked(p *Player) {
	ev := evaluator.Evaluate(p.holeCards, t.community)
	t.broadcaster.Broadcast(newNotification(NotificationPlayerShowedCards, &PlayerShowedCardsData{
		PlayerID: p.PlayerID,
		Cards:    p.holeCards,
		Tier:     ev.Tier,
		Hand:     ev.Tier.String(),
	}))
}

func (t *Table) broadcastPhaseLocked() {
	t.broadcaster.Broadcast(newNotification(NotificationPhaseChanged, &PhaseChangedData{
		Phase:          t.state,
		CommunityCards: t.community,
		Pots:           t.pots.Pots(),
	}))
}

func (t *Table) stopTimersLocked() {
	for _, timer := range []*time.Timer{t.countdownTimer, t.actionTimer, t.advanceTimer} {
		if timer != nil {
			timer.Stop()
		}
	}

	t.countdownTimer = nil
	t.actionTimer = nil
	t.advanceTimer = nil
}

func (t *Table) mustDrawLocked() *deck.Card {
	card, err := t.deck.Draw()
	if err != nil {
		panic(err)
	}

	return card
}

func (t *Table) mustBurnLocked() {
	if err := t.deck.Burn(); err != nil {
		panic(err)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
