// Package cli turns command line arguments into what to show.
package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"bandex/internal/model"
)

var (
	ErrWeekdayConflict = errors.New("escolha mostrar um dia específico (-w <WEEKDAY>) ou todos os dias (-e)")
	ErrInvalidWeekday  = errors.New("o dia da semana é um inteiro entre 1 e 7")
)

// Options holds the parsed flags.
type Options struct {
	Lunch      bool
	Dinner     bool
	Weekday    int // 0 when -w was not given
	Everything bool
	ConfigPath string
	List       bool
	Daemon     bool
	NoColor    bool
	Verbose    bool
	Version    bool
}

const usageFooter = `
Se deseja consultar o cardápio do almoço e da janta, pode-se colocar os dois argumentos "-j -a" ou "-aj".
`

// Parse reads args, without the program name. It returns pflag.ErrHelp
// when help was requested.
func Parse(args []string, output io.Writer) (*Options, error) {
	opts := &Options{}
	fs := pflag.NewFlagSet("bandex", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintln(output, "Mostra o cardápio dos restaurantes da USP\n\nUso: bandex [opções]")
		fs.PrintDefaults()
		fmt.Fprint(output, usageFooter)
	}

	fs.BoolVarP(&opts.Lunch, "lunch", "a", false, "Mostra apenas os almoços")
	fs.BoolVarP(&opts.Dinner, "dinner", "j", false, "Mostra apenas os jantares")
	fs.IntVarP(&opts.Weekday, "weekday", "w", 0, "Mostra as refeições do dia escolhido (Segunda = 1, ..., Domingo = 7)")
	fs.BoolVarP(&opts.Everything, "everything", "e", false, "Mostra todas as refeições da semana")
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Arquivo de configuração do bandex (YAML)")
	fs.BoolVarP(&opts.List, "list", "l", false, "Lista os restaurantes disponíveis")
	fs.BoolVarP(&opts.Daemon, "daemon", "d", false, "Envia os cardápios para o Telegram em horários agendados")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Desativa as cores")
	fs.BoolVarP(&opts.Verbose, "verbose", "V", false, "Mostra mensagens de depuração")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Mostra a versão")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("argumento inesperado: %s", fs.Arg(0))
	}
	if fs.Changed("weekday") {
		if _, err := ParseWeekday(opts.Weekday); err != nil {
			return nil, err
		}
		if opts.Everything {
			return nil, ErrWeekdayConflict
		}
	}
	return opts, nil
}

// ParseWeekday converts Monday=1 ... Sunday=7 to a time.Weekday.
func ParseWeekday(n int) (time.Weekday, error) {
	if n < 1 || n > 7 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeekday, n)
	}
	return time.Weekday(n % 7), nil
}

// MealTypesAt picks the meals worth showing at time t: lunch strictly
// between 06:00 and 14:00, dinner from 14:00 until 20:00, both otherwise.
func MealTypesAt(t time.Time) []model.MealType {
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	switch {
	case tod > 6*time.Hour && tod < 14*time.Hour:
		return []model.MealType{model.Lunch}
	case tod >= 14*time.Hour && tod < 20*time.Hour:
		return []model.MealType{model.Dinner}
	default:
		return []model.MealType{model.Lunch, model.Dinner}
	}
}

// MealTypes resolves the meals to show from -a, -j and -e.
func (o *Options) MealTypes(now time.Time) []model.MealType {
	switch {
	case o.Lunch && !o.Dinner:
		return []model.MealType{model.Lunch}
	case o.Dinner && !o.Lunch:
		return []model.MealType{model.Dinner}
	case !o.Lunch && !o.Dinner && !o.Everything:
		return MealTypesAt(now)
	default:
		return []model.MealType{model.Lunch, model.Dinner}
	}
}

// Weekdays resolves the days to show: the workweek for -e, the -w day, or today.
func (o *Options) Weekdays(now time.Time) []time.Weekday {
	if o.Everything {
		return model.Workweek
	}
	if o.Weekday != 0 {
		if d, err := ParseWeekday(o.Weekday); err == nil {
			return []time.Weekday{d}
		}
	}
	return []time.Weekday{now.Weekday()}
}
