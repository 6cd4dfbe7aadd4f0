package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	*zap.SugaredLogger

	name  string
	level zap.AtomicLevel
	core  zapcore.Core
}

func newImpl(name string, level Level, cores ...zapcore.Core) *impl {
	imp := &impl{
		name:  name,
		level: zap.NewAtomicLevelAt(level.AsZap()),
		core:  zapcore.NewTee(cores...),
	}
	imp.SugaredLogger = zap.New(imp.core, zap.AddCaller(), zap.IncreaseLevel(imp.level)).Sugar().Named(name)
	return imp
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	sub := &impl{
		name:  newName,
		level: zap.NewAtomicLevelAt(imp.level.Level()),
		core:  imp.core,
	}
	sub.SugaredLogger = zap.New(sub.core, zap.AddCaller(), zap.IncreaseLevel(sub.level)).Sugar().Named(newName)
	return sub
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	return levelFromZap(imp.level.Level())
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.SugaredLogger
}
