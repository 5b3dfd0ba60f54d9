package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/metric"
	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

// tickInterval is roughly one frame at 60 Hz.
const tickInterval = 16 * time.Millisecond

// Options are the settings the interactive view takes from config.
type Options struct {
	WeightStep   float64
	Metric       model.Metric
	GraphPoints  int
	ActivityDays int
	Timeout      time.Duration
	// KeysPath is the binds.conf file layered over the default bindings.
	KeysPath string
	// CheckSession asks the backend who is signed in on startup.
	CheckSession bool
	// Day opens the grid on a day other than today.
	Day model.Day
}

func (o Options) withDefaults() Options {
	if o.WeightStep <= 0 {
		o.WeightStep = 2.5
	}
	if o.GraphPoints <= 0 {
		o.GraphPoints = metric.MaxPoints
	}
	if o.ActivityDays <= 0 {
		o.ActivityDays = 21
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

type appModel struct {
	client api.Client
	opts   Options
	sync   *setsync.Engine
	keys   keyMap
	help   help.Model
	spin   spinner.Model
	now    func() time.Time

	width  int
	height int

	user string

	plans       []model.Plan
	plansLoaded bool
	planName    string
	day         model.Day
	exercises   []entry.ExerciseState
	selected    int

	// history is the raw exercise history behind each graph, kept so a
	// metric switch does not refetch.
	history map[int64][]model.WorkoutSet
	// serverGraphs marks exercises charted from the backend's own series,
	// which has to be fetched again for every metric.
	serverGraphs map[int64]bool
	graphs       map[int64][]model.GraphPoint
	metric       model.Metric

	activity    []model.ActivityDay
	activitySeq int

	status   string
	showHelp bool
	// dayInput is the go-to-day prompt; focused while it is open.
	dayInput textinput.Model

	keysWatch *keysWatcher
	helpPage  *helpPage
}

func newAppModel(client api.Client, opts Options) appModel {
	opts = opts.withDefaults()
	km, err := loadKeyMap(opts.KeysPath)
	m := appModel{
		client:       client,
		opts:         opts,
		sync:         setsync.New(time.Local),
		keys:         km,
		help:         help.New(),
		helpPage:     &helpPage{},
		spin:         spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styleMuted())),
		now:          time.Now,
		day:          model.Today(),
		history:      map[int64][]model.WorkoutSet{},
		graphs:       map[int64][]model.GraphPoint{},
		serverGraphs: map[int64]bool{},
		metric:       opts.Metric,
		status:       "Loading plan...",
	}
	m.dayInput = textinput.New()
	m.dayInput.Prompt = "Go to day: "
	m.dayInput.Placeholder = "YYYY-MM-DD"
	m.dayInput.CharLimit = len(model.DayLayout)
	m.dayInput.Width = len(model.DayLayout) + 2
	if !opts.Day.IsZero() {
		m.day = opts.Day
	}
	if err != nil {
		log.Warnf("tui: key bindings: %s", err)
		m.status = "Key bindings: " + err.Error()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), m.spin.Tick, m.loadPlans(), m.loadActivity(), m.keysWatch.wait()}
	if m.opts.CheckSession {
		cmds = append(cmds, m.checkSession())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *appModel) current() *entry.ExerciseState {
	if m.selected < 0 || m.selected >= len(m.exercises) {
		return nil
	}
	return &m.exercises[m.selected]
}

func (m *appModel) showsExercise(id int64) bool {
	for i := range m.exercises {
		if eid, ok := m.exercises[i].ID(); ok && eid == id {
			return true
		}
	}
	return false
}

// busy counts outstanding requests, including saves not yet acknowledged.
func (m appModel) busy() int {
	n := m.sync.InFlight()
	for _, ex := range m.exercises {
		for _, s := range ex.Sets {
			if s.Pending {
				n++
			}
		}
	}
	return n
}
