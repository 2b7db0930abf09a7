package pm

type pipenv struct {
	base
}

func (m pipenv) Install(args []string) (ExecRequest, error) {
	return m.exec(prepend("install", args)...), nil
}

func (m pipenv) Uninstall(args []string) (ExecRequest, error) {
	return m.exec(prepend("uninstall", args)...), nil
}

func (m pipenv) Update(args []string) (ExecRequest, error) {
	return m.exec(prepend("update", args)...), nil
}

func (m pipenv) Run(args []string) (ExecRequest, error) {
	return m.exec(prepend("run", args)...), nil
}
