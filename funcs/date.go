package funcs

import (
	"time"

	"sheetengine/value"
)

// excelEpoch is 1899-12-30, chosen (rather than 1900-01-01) so that day
// counts from it equal Excel's serial numbers from serial 61 (1900-03-01)
// on, past Excel's fictitious 1900-02-29. Serials below 61 are not
// special-cased: each maps to the day before Excel's date for it (serial
// 60 is 1900-02-28, serial 1 is 1899-12-31).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func serialFromTime(t time.Time) float64 {
	d := t.UTC().Truncate(24 * time.Hour).Sub(excelEpoch)
	return d.Hours() / 24
}

func timeFromSerial(serial float64) time.Time {
	days := int(serial)
	return excelEpoch.AddDate(0, 0, days)
}

func (r *Registry) registerDate() {
	r.register("TODAY", func(args []value.Value) value.Value {
		now := r.clock.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return value.Number(serialFromTime(today))
	})

	r.register("NOW", func(args []value.Value) value.Value {
		now := r.clock.Now().UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		frac := now.Sub(midnight).Hours() / 24
		return value.Number(serialFromTime(midnight) + frac)
	})

	r.register("YEAR", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		return value.Number(float64(timeFromSerial(n).Year()))
	}))

	r.register("MONTH", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		return value.Number(float64(timeFromSerial(n).Month()))
	}))

	r.register("DAY", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		return value.Number(float64(timeFromSerial(n).Day()))
	}))

	r.register("EOMONTH", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		months, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		t := timeFromSerial(n)
		firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(months)+1, 0)
		lastDay := firstOfTarget.AddDate(0, 0, -1)
		return value.Number(serialFromTime(lastDay))
	}))

	r.register("DATEDIF", errorPropagating(func(args []value.Value) value.Value {
		start, errv, ok := number1(args)
		if !ok {
			return errv
		}
		end, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		unit := textArg(args, 2)
		if end < start {
			return value.Error(value.ErrNum)
		}
		return datedif(timeFromSerial(start), timeFromSerial(end), unit)
	}))

	r.register("DATE", errorPropagating(func(args []value.Value) value.Value {
		y, errv, ok := number1(args)
		if !ok {
			return errv
		}
		m, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		d, errv, ok := value.ToNumber(arg(args, 2))
		if !ok {
			return errv
		}
		t := time.Date(int(y), time.Month(int(m)), int(d), 0, 0, 0, 0, time.UTC)
		return value.Number(serialFromTime(t))
	}))
}

func datedif(start, end time.Time, unit string) value.Value {
	switch unit {
	case "d", "D":
		return value.Number(end.Sub(start).Hours() / 24)
	case "y", "Y":
		years := end.Year() - start.Year()
		anniversary := start.AddDate(years, 0, 0)
		if anniversary.After(end) {
			years--
		}
		return value.Number(float64(years))
	case "m", "M":
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		anniversary := start.AddDate(0, months, 0)
		if anniversary.After(end) {
			months--
		}
		return value.Number(float64(months))
	default:
		return value.Error(value.ErrNum)
	}
}
